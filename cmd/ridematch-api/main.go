// README: Entry point; loads config, wires providers and services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ridematch/internal/config"
	httptransport "ridematch/internal/http"
	"ridematch/internal/infra"
	"ridematch/internal/modules/features"
	"ridematch/internal/modules/matching"
	"ridematch/internal/modules/pricing"
	"ridematch/internal/modules/registry"
	"ridematch/internal/predict"
	"ridematch/internal/routing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := buildResolver(cfg, logger)
	etaModel, demandModel := buildPredictors(ctx, cfg, logger)

	var tariffStore *pricing.Store
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("postgres init: %v", err)
		}
		defer pool.Close()
		tariffStore = pricing.NewStore(pool)
	}

	vehicles := registry.New()
	pricer := pricing.NewService(tariffStore, cfg.Pricing)
	builder := features.NewBuilder(cfg.Matching)
	matcher := matching.NewService(vehicles, resolver, etaModel, demandModel, pricer, builder, cfg.Matching, logger)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Registry: vehicles,
		Matching: matcher,
		Config:   cfg.Matching,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// buildResolver picks the routing backend: Google Maps when a key is present,
// OSRM otherwise, with a Redis cache in front when Redis is configured.
func buildResolver(cfg config.Config, logger *slog.Logger) routing.Resolver {
	var resolver routing.Resolver
	if cfg.Routing.GoogleMapsKey != "" {
		g, err := routing.NewGoogleResolver(cfg.Routing.GoogleMapsKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		resolver = g
		logger.Info("routing backend: google maps")
	} else if cfg.Routing.OSRMBaseURL != "" {
		resolver = routing.NewOSRMResolver(cfg.Routing.OSRMBaseURL)
		logger.Info("routing backend: osrm", "url", cfg.Routing.OSRMBaseURL)
	} else {
		resolver = routing.NewGeometricResolver(cfg.Routing.FallbackMinPerKm)
		logger.Info("routing backend: geometric fallback")
	}

	if cfg.Redis.Addr != "" {
		rdb := infra.NewRedis(cfg.Redis.Addr)
		resolver = routing.NewCachedResolver(resolver, rdb, cfg.Routing.CacheTTL)
		logger.Info("route cache enabled", "addr", cfg.Redis.Addr)
	}
	return resolver
}

// buildPredictors wires the ETA and demand models: a model server when
// deployed, a Gemini demand estimator when only a key is available, and the
// deterministic linear models otherwise.
func buildPredictors(ctx context.Context, cfg config.Config, logger *slog.Logger) (eta, demand matching.Predictor) {
	if cfg.Predict.ModelServerURL != "" {
		logger.Info("prediction backend: model server", "url", cfg.Predict.ModelServerURL)
		return predict.NewModelClient(cfg.Predict.ModelServerURL, "eta"),
			predict.NewModelClient(cfg.Predict.ModelServerURL, "demand")
	}

	eta = predict.NewDefaultETAModel()
	demand = predict.NewDefaultDemandModel()

	if cfg.Predict.GeminiKey != "" {
		g, err := predict.NewGeminiDemandEstimator(ctx, cfg.Predict.GeminiKey)
		if err != nil {
			logger.Warn("gemini init failed, using linear demand model", "err", err)
		} else {
			demand = g
			logger.Info("prediction backend: gemini demand estimator")
		}
	}
	return eta, demand
}
