// README: Vehicle domain model owned by the registry.
package registry

import "ridematch/internal/types"

// Vehicle is the registry's unit of state. Records are replaced wholesale on
// upsert and never expire; a vehicle that stops reporting simply keeps its
// last known position and availability.
type Vehicle struct {
	ID        types.ID
	Position  types.Point
	Available bool
	// Category is an open set ("Mini", "Sedan", "SUV", ...); the engine
	// never interprets it beyond tariff lookup and response echo.
	Category string
	// Rating is the driver quality signal, zero when the fleet feed does
	// not supply one.
	Rating float64
}
