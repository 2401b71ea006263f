// README: Request, quote, and result types for the matching pass.
package matching

import (
	"ridematch/internal/modules/features"
	"ridematch/internal/modules/ranking"
	"ridematch/internal/types"
)

// Request is one ride-quote request after boundary validation.
type Request struct {
	Pickup  types.Point
	Dropoff types.Point
	Traffic features.Context
	// Preference selects the ranking weight table; empty means balanced.
	Preference ranking.Preference
	// TopK bounds the result. 0 returns an empty list; the HTTP boundary
	// applies the configured default when the field is omitted.
	TopK int
}

// Quote is the computed offer for one (request, vehicle) pair. Quotes live
// for the duration of one matching pass and are never stored.
type Quote struct {
	VehicleID  types.ID
	Category   string
	DistanceKm float64
	ETAMinutes float64
	Price      float64
	Surge      float64
	rating     float64
}

// Result is the terminal outcome of a pass: a bounded ordered list, or an
// explicit empty marker when no vehicle was available or every candidate
// failed quoting. Empty results are not errors.
type Result struct {
	Quotes []Quote
	Empty  bool
}
