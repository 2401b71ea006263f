// README: Gemini-backed demand estimator; optional, wired only when a key is set.
package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiDemandEstimator asks a generative model for a demand level when no
// trained demand model is deployed. The model is forced into JSON mode and
// its answer clamped to a sane range, so a hallucinated value can push surge
// around but never break the pricing invariants.
type GeminiDemandEstimator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiDemandEstimator(ctx context.Context, apiKey string) (*GeminiDemandEstimator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	// Deterministic-ish output; this is a regression stand-in, not a chat.
	model.SetTemperature(0.1)

	return &GeminiDemandEstimator{client: client, model: model}, nil
}

func (g *GeminiDemandEstimator) Close() {
	g.client.Close()
}

func (g *GeminiDemandEstimator) Predict(ctx context.Context, features []float64) (float64, error) {
	if len(features) != FeatureCount {
		return 0, fmt.Errorf("%w: expected %d features, got %d", ErrUnavailable, FeatureCount, len(features))
	}

	prompt := fmt.Sprintf(`You are a ride-hailing demand estimator.
Input feature vector (version %d, fixed order):
  distance_km=%.2f traffic_level=%.0f hour=%.0f day_of_week=%.0f is_peak=%.0f demand_index=%.0f
Estimate the current ride demand level for this context as a single number
between 1 (idle) and 10 (extreme). Respond with JSON: {"demand": <number>}`,
		FeatureVersion, features[0], features[1], features[2], features[3], features[4], features[5])

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return 0, fmt.Errorf("%w: gemini: %v", ErrUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return 0, fmt.Errorf("%w: no candidates", ErrUnavailable)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	var out struct {
		Demand float64 `json:"demand"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text.String())), &out); err != nil {
		return 0, fmt.Errorf("%w: parse gemini answer: %v", ErrUnavailable, err)
	}

	if out.Demand < 1 {
		out.Demand = 1
	}
	if out.Demand > 10 {
		out.Demand = 10
	}
	return out.Demand, nil
}
