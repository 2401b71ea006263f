// README: Distance/ETA provider contract consumed by the matching pass.
package routing

import (
	"context"
	"errors"

	"ridematch/internal/types"
)

// ErrUnavailable signals that a route could not be resolved for one pair of
// points. The matching pass drops the candidate and carries on.
var ErrUnavailable = errors.New("route unavailable")

// RouteEstimate is the answer a resolver gives for one origin/destination pair.
type RouteEstimate struct {
	DistanceKm  float64
	DurationMin float64
	// Geometry is the decoded route shape when the backend returns one;
	// nil for geometric approximations.
	Geometry []types.Point
}

// Resolver turns two coordinates into a road distance and travel time.
// Implementations may call out over the network; all of them honour ctx.
type Resolver interface {
	Resolve(ctx context.Context, from, to types.Point) (RouteEstimate, error)
}
