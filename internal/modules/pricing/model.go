// README: Tariff definitions and the pricing result value object.
package pricing

import "ridematch/internal/config"

// Tariff is the set of fare constants applied to one vehicle category.
type Tariff struct {
	Category string
	BaseFare float64
	PerKm    float64
	PerMin   float64
}

// Result is derived per request and never persisted.
type Result struct {
	// Price in currency units, rounded to 2 decimals.
	Price float64
	// Surge is the demand inflation factor, never below 1.0.
	Surge float64
}

func tariffFromConfig(cfg config.PricingConfig) Tariff {
	return Tariff{
		BaseFare: cfg.BaseFare,
		PerKm:    cfg.PerKm,
		PerMin:   cfg.PerMin,
	}
}
