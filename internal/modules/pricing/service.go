// README: Pricing engine; continuous-elasticity surge over a configurable tariff.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"ridematch/internal/config"
)

// ErrInvalidQuoteInput rejects non-finite or negative distance/ETA inputs.
// The matching pass treats it as "exclude this candidate".
var ErrInvalidQuoteInput = errors.New("invalid quote input")

// Service computes a surge-adjusted fare. Surge policy is the continuous
// elasticity curve
//
//	surge = 1 + max(0, (demand/max(supply,1) - 1) * elasticity)
//
// so surge never drops the price below the flat fare and grows linearly once
// demand outstrips supply. Pure function over its inputs; safe for
// unrestricted concurrent use.
type Service struct {
	store      *Store
	defaults   Tariff
	elasticity float64
}

// NewService builds the engine. store may be nil; category tariffs then come
// from config alone.
func NewService(store *Store, cfg config.PricingConfig) *Service {
	return &Service{
		store:      store,
		defaults:   tariffFromConfig(cfg),
		elasticity: cfg.Elasticity,
	}
}

// Price computes the fare for one candidate. demand and supply describe the
// request-wide market; distance and ETA the single candidate. Output is
// rounded to 2 decimals at this boundary only.
func (s *Service) Price(ctx context.Context, category string, distanceKm, etaMin, demand, supply float64) (Result, error) {
	if !isFiniteNonNegative(distanceKm) {
		return Result{}, fmt.Errorf("%w: distance %v", ErrInvalidQuoteInput, distanceKm)
	}
	if !isFiniteNonNegative(etaMin) {
		return Result{}, fmt.Errorf("%w: eta %v", ErrInvalidQuoteInput, etaMin)
	}

	tariff := s.tariffFor(ctx, category)
	surge := s.surge(demand, supply)
	price := (tariff.BaseFare + tariff.PerKm*distanceKm + tariff.PerMin*etaMin) * surge

	return Result{Price: round2(price), Surge: round2(surge)}, nil
}

func (s *Service) surge(demand, supply float64) float64 {
	if demand < 0 {
		demand = 0
	}
	if supply < 1 {
		supply = 1
	}
	return 1 + math.Max(0, (demand/supply-1)*s.elasticity)
}

func (s *Service) tariffFor(ctx context.Context, category string) Tariff {
	if s.store == nil || category == "" {
		return s.defaults
	}
	t, found, err := s.store.GetTariff(ctx, category)
	if err != nil {
		slog.Warn("tariff lookup failed, using defaults", "category", category, "err", err)
		return s.defaults
	}
	if !found {
		return s.defaults
	}
	return t
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
