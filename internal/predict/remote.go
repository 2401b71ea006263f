// README: HTTP client for an external model-serving endpoint.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ModelClient calls a model server that exposes trained regressors behind a
// plain JSON POST. One client per model; the path names the model.
type ModelClient struct {
	url   string
	httpc *http.Client
}

type predictRequest struct {
	Version  int       `json:"version"`
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Value float64 `json:"value"`
}

// NewModelClient builds a client for baseURL/path, e.g. NewModelClient(url, "eta").
func NewModelClient(baseURL, path string) *ModelClient {
	return &ModelClient{
		url:   strings.TrimRight(baseURL, "/") + "/predict/" + strings.Trim(path, "/"),
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *ModelClient) Predict(ctx context.Context, features []float64) (float64, error) {
	body, err := json.Marshal(predictRequest{Version: FeatureVersion, Features: features})
	if err != nil {
		return 0, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: model server status %d", ErrUnavailable, resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return out.Value, nil
}
