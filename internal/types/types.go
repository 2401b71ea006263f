// README: Common value objects shared across modules.
package types

// ID identifies a vehicle or a request.
type ID string

// Point is a WGS84 coordinate in signed decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Valid reports whether the point lies within the legal coordinate ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
