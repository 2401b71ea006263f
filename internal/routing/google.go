// README: Google Maps Directions-backed route resolver.
package routing

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"ridematch/internal/types"
)

// GoogleResolver resolves routes through the Google Maps Directions API.
type GoogleResolver struct {
	client *maps.Client
}

func NewGoogleResolver(apiKey string) (*GoogleResolver, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &GoogleResolver{client: client}, nil
}

func (g *GoogleResolver) Resolve(ctx context.Context, from, to types.Point) (RouteEstimate, error) {
	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", from.Lat, from.Lng),
		Destination: fmt.Sprintf("%f,%f", to.Lat, to.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return RouteEstimate{}, fmt.Errorf("%w: directions: %v", ErrUnavailable, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteEstimate{}, fmt.Errorf("%w: no route found", ErrUnavailable)
	}

	leg := routes[0].Legs[0]
	return RouteEstimate{
		DistanceKm:  float64(leg.Distance.Meters) / 1000,
		DurationMin: leg.Duration.Minutes(),
	}, nil
}
