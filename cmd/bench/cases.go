// README: Benchmark fleet setup and latency aggregation.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"ridematch/internal/config"
	"ridematch/internal/modules/features"
	"ridematch/internal/modules/matching"
	"ridematch/internal/modules/pricing"
	"ridematch/internal/modules/ranking"
	"ridematch/internal/modules/registry"
	"ridematch/internal/predict"
	"ridematch/internal/routing"
	"ridematch/internal/types"
)

type FleetResult struct {
	Passes int
	Quoted int
	P50    time.Duration
	P99    time.Duration
	Max    time.Duration
}

// laggyResolver wraps the geometric resolver with a fixed sleep so the worker
// pool has something real to hide.
type laggyResolver struct {
	next routing.Resolver
	lag  time.Duration
}

func (l *laggyResolver) Resolve(ctx context.Context, from, to types.Point) (routing.RouteEstimate, error) {
	if l.lag > 0 {
		select {
		case <-time.After(l.lag):
		case <-ctx.Done():
			return routing.RouteEstimate{}, ctx.Err()
		}
	}
	return l.next.Resolve(ctx, from, to)
}

func runFleet(ctx context.Context, cfg Config, size int) (FleetResult, error) {
	mcfg := config.MatchingConfig{
		BlendAlpha:       0.6,
		DefaultTopK:      cfg.TopK,
		QuoteConcurrency: cfg.Concurrency,
		PerCallTimeout:   2 * time.Second,
		RequestTimeout:   30 * time.Second,
		PeakHours:        []int{8, 9, 10, 17, 18, 19},
		DemandThreshold:  2,
	}

	reg := registry.New()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < size; i++ {
		v := registry.Vehicle{
			ID:        types.ID(fmt.Sprintf("veh_%05d", i)),
			Position:  types.Point{Lat: 12.9 + rng.Float64()*0.2, Lng: 77.5 + rng.Float64()*0.2},
			Available: true,
			Category:  []string{"Mini", "Sedan", "SUV"}[i%3],
			Rating:    3.5 + rng.Float64()*1.5,
		}
		if err := reg.Upsert(v); err != nil {
			return FleetResult{}, err
		}
	}

	var resolver routing.Resolver = routing.NewGeometricResolver(4.0)
	if cfg.ProviderLag > 0 {
		resolver = &laggyResolver{next: resolver, lag: cfg.ProviderLag}
	}

	pricer := pricing.NewService(nil, config.PricingConfig{BaseFare: 30, PerKm: 8, PerMin: 2, Elasticity: 0.5})
	svc := matching.NewService(
		reg,
		resolver,
		predict.NewDefaultETAModel(),
		predict.NewDefaultDemandModel(),
		pricer,
		features.NewBuilder(mcfg),
		mcfg,
		nil,
	)

	req := matching.Request{
		Pickup:     types.Point{Lat: 12.97, Lng: 77.59},
		Dropoff:    types.Point{Lat: 12.93, Lng: 77.62},
		Traffic:    features.Context{TrafficLevel: 2},
		Preference: ranking.PreferenceBalanced,
		TopK:       cfg.TopK,
	}

	latencies := make([]time.Duration, 0, cfg.Passes)
	quoted := 0
	for i := 0; i < cfg.Passes; i++ {
		start := time.Now()
		res, err := svc.Match(ctx, req)
		if err != nil {
			return FleetResult{}, err
		}
		latencies = append(latencies, time.Since(start))
		quoted += len(res.Quotes)
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	return FleetResult{
		Passes: cfg.Passes,
		Quoted: quoted,
		P50:    percentile(latencies, 50),
		P99:    percentile(latencies, 99),
		Max:    latencies[len(latencies)-1],
	}, nil
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
