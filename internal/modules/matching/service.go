// README: Matching orchestrator; one bounded-concurrency quoting pass per request.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"ridematch/internal/config"
	"ridematch/internal/modules/features"
	"ridematch/internal/modules/pricing"
	"ridematch/internal/modules/ranking"
	"ridematch/internal/modules/registry"
	"ridematch/internal/routing"
)

// ErrInvalidRequest rejects malformed requests before the quoting pass runs.
var ErrInvalidRequest = errors.New("invalid ride request")

// Snapshotter is the registry read the orchestrator depends on.
type Snapshotter interface {
	SnapshotAvailable() []registry.Vehicle
}

// Pricer is the pricing engine boundary.
type Pricer interface {
	Price(ctx context.Context, category string, distanceKm, etaMin, demand, supply float64) (pricing.Result, error)
}

// Predictor mirrors predict.Predictor; declared here so tests can fake it
// without importing the provider package.
type Predictor interface {
	Predict(ctx context.Context, featureVector []float64) (float64, error)
}

// Service runs the matching pass. It holds no per-request state; everything
// mutable lives on the stack of Match.
type Service struct {
	vehicles Snapshotter
	routes   routing.Resolver
	eta      Predictor
	demand   Predictor
	pricing  Pricer
	features *features.Builder
	cfg      config.MatchingConfig
	log      *slog.Logger
}

func NewService(
	vehicles Snapshotter,
	routes routing.Resolver,
	eta Predictor,
	demand Predictor,
	pricer Pricer,
	builder *features.Builder,
	cfg config.MatchingConfig,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	if cfg.QuoteConcurrency <= 0 {
		cfg.QuoteConcurrency = 8
	}
	return &Service{
		vehicles: vehicles,
		routes:   routes,
		eta:      eta,
		demand:   demand,
		pricing:  pricer,
		features: builder,
		cfg:      cfg,
		log:      log,
	}
}

// Match executes one pass: collect, quote, rank, bound. Per-candidate
// provider failures are absorbed; only a malformed request surfaces as an
// error.
func (s *Service) Match(ctx context.Context, req Request) (Result, error) {
	if err := validate(req); err != nil {
		return Result{}, err
	}

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	available := s.vehicles.SnapshotAvailable()
	if len(available) == 0 {
		return Result{Empty: true}, nil
	}

	// Demand is a property of the request context, not of any one vehicle:
	// score it once against the trip, with supply = snapshot size.
	supply := float64(len(available))
	demand := s.demandLevel(ctx, req)

	quotes := s.quoteAll(ctx, req, available, demand, supply)
	if len(quotes) == 0 {
		return Result{Empty: true}, nil
	}

	ranked := ranking.Rank(quotes, req.Preference, func(q Quote) ranking.Metrics {
		return ranking.Metrics{
			ID:         string(q.VehicleID),
			ETAMinutes: q.ETAMinutes,
			Price:      q.Price,
			Rating:     q.rating,
		}
	})

	k := req.TopK
	if k > len(ranked) {
		k = len(ranked)
	}
	return Result{Quotes: ranked[:k]}, nil
}

// quoteAll fans the candidates out over a bounded worker pool. Each candidate
// gets its own provider deadline; a slow or failing provider costs only that
// candidate.
func (s *Service) quoteAll(ctx context.Context, req Request, available []registry.Vehicle, demand, supply float64) []Quote {
	results := make([]*Quote, len(available))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.QuoteConcurrency)

	for i, v := range available {
		i, v := i, v // per-iteration copies; the go directive predates Go 1.22 loop semantics
		g.Go(func() error {
			q, err := s.quoteOne(gctx, req, v, demand, supply)
			if err != nil {
				s.log.Warn("candidate dropped", "vehicle_id", v.ID, "err", err)
				return nil
			}
			results[i] = &q
			return nil
		})
	}
	// Workers never return errors; per-candidate failures are absorbed above.
	_ = g.Wait()

	quotes := make([]Quote, 0, len(available))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

func (s *Service) quoteOne(ctx context.Context, req Request, v registry.Vehicle, demand, supply float64) (Quote, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	route, err := s.routes.Resolve(callCtx, v.Position, req.Pickup)
	if err != nil {
		return Quote{}, fmt.Errorf("resolve route: %w", err)
	}
	if !finite(route.DistanceKm) || !finite(route.DurationMin) {
		return Quote{}, fmt.Errorf("%w: non-finite route estimate", routing.ErrUnavailable)
	}

	vector := s.features.Vector(route.DistanceKm, req.Traffic)

	predCtx, cancelPred := s.callContext(ctx)
	defer cancelPred()
	predictedETA, err := s.eta.Predict(predCtx, vector)
	if err != nil {
		return Quote{}, fmt.Errorf("predict eta: %w", err)
	}

	// Blend the routed ETA with the model's view of current conditions.
	eta := s.cfg.BlendAlpha*route.DurationMin + (1-s.cfg.BlendAlpha)*predictedETA
	if eta < 0 {
		eta = 0
	}

	priced, err := s.pricing.Price(ctx, v.Category, route.DistanceKm, eta, demand, supply)
	if err != nil {
		return Quote{}, fmt.Errorf("price quote: %w", err)
	}

	return Quote{
		VehicleID:  v.ID,
		Category:   v.Category,
		DistanceKm: round2(route.DistanceKm),
		ETAMinutes: round2(eta),
		Price:      priced.Price,
		Surge:      priced.Surge,
		rating:     v.Rating,
	}, nil
}

// demandLevel scores the trip context once. A failed demand provider means no
// surge rather than no quotes.
func (s *Service) demandLevel(ctx context.Context, req Request) float64 {
	tripKm := routing.HaversineKm(req.Pickup, req.Dropoff)
	vector := s.features.Vector(tripKm, req.Traffic)

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	demand, err := s.demand.Predict(callCtx, vector)
	if err != nil {
		s.log.Warn("demand prediction unavailable, assuming no surge", "err", err)
		return 0
	}
	return math.Max(demand, 0)
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.PerCallTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.PerCallTimeout)
	}
	return context.WithCancel(ctx)
}

func validate(req Request) error {
	if !req.Pickup.Valid() {
		return fmt.Errorf("%w: pickup out of range", ErrInvalidRequest)
	}
	if !req.Dropoff.Valid() {
		return fmt.Errorf("%w: dropoff out of range", ErrInvalidRequest)
	}
	if req.TopK < 0 {
		return fmt.Errorf("%w: negative top_k", ErrInvalidRequest)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
