// README: OSRM HTTP routing client.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"ridematch/internal/types"
)

// osrmResponse mirrors the parts of the OSRM /route answer the engine uses.
type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64 `json:"distance"` // metres
	Duration float64 `json:"duration"` // seconds
	Geometry string  `json:"geometry"` // polyline, only when overview requested
}

// OSRMResolver resolves routes against an OSRM server's driving profile.
type OSRMResolver struct {
	baseURL      string
	httpc        *http.Client
	withGeometry bool
}

type OSRMOption func(*OSRMResolver)

// WithGeometry requests the full route polyline instead of overview=false.
func WithGeometry() OSRMOption {
	return func(r *OSRMResolver) { r.withGeometry = true }
}

func NewOSRMResolver(baseURL string, opts ...OSRMOption) *OSRMResolver {
	r := &OSRMResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *OSRMResolver) Resolve(ctx context.Context, from, to types.Point) (RouteEstimate, error) {
	overview := "false"
	if r.withGeometry {
		overview = "full"
	}
	// OSRM takes lon,lat pairs.
	url := r.baseURL + "/route/v1/driving/" +
		strconv.FormatFloat(from.Lng, 'f', 6, 64) + "," +
		strconv.FormatFloat(from.Lat, 'f', 6, 64) + ";" +
		strconv.FormatFloat(to.Lng, 'f', 6, 64) + "," +
		strconv.FormatFloat(to.Lat, 'f', 6, 64) +
		"?overview=" + overview

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return RouteEstimate{}, fmt.Errorf("osrm request: %w", err)
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return RouteEstimate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RouteEstimate{}, fmt.Errorf("%w: osrm status %d", ErrUnavailable, resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return RouteEstimate{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return RouteEstimate{}, fmt.Errorf("%w: no routes", ErrUnavailable)
	}

	route := body.Routes[0]
	est := RouteEstimate{
		DistanceKm:  route.Distance / 1000,
		DurationMin: route.Duration / 60,
	}
	if r.withGeometry && route.Geometry != "" {
		coords, _, err := polyline.DecodeCoords([]byte(route.Geometry))
		if err == nil {
			est.Geometry = make([]types.Point, len(coords))
			for i, c := range coords {
				est.Geometry[i] = types.Point{Lat: c[0], Lng: c[1]}
			}
		}
	}
	return est, nil
}
