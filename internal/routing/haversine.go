// README: Great-circle distance helpers and the geometric fallback resolver.
package routing

import (
	"context"
	"math"

	"ridematch/internal/types"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(from, to types.Point) float64 {
	dLat := degreesToRadians(to.Lat - from.Lat)
	dLng := degreesToRadians(to.Lng - from.Lng)

	rLat1 := degreesToRadians(from.Lat)
	rLat2 := degreesToRadians(to.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// GeometricResolver approximates a route with the great-circle distance and a
// flat minutes-per-kilometre speed assumption. It never fails, which makes it
// the fallback of last resort and the workhorse for tests and benches.
type GeometricResolver struct {
	// MinutesPerKm converts distance to ETA (urban default 4.0).
	MinutesPerKm float64
}

func NewGeometricResolver(minutesPerKm float64) *GeometricResolver {
	if minutesPerKm <= 0 {
		minutesPerKm = 4.0
	}
	return &GeometricResolver{MinutesPerKm: minutesPerKm}
}

func (g *GeometricResolver) Resolve(_ context.Context, from, to types.Point) (RouteEstimate, error) {
	d := HaversineKm(from, to)
	return RouteEstimate{DistanceKm: d, DurationMin: d * g.MinutesPerKm}, nil
}
