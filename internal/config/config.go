// README: Config loader with env defaults for HTTP, providers, pricing, and matching settings.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type PricingConfig struct {
	BaseFare   float64
	PerKm      float64
	PerMin     float64
	Elasticity float64
}

type MatchingConfig struct {
	BlendAlpha       float64
	DefaultTopK      int
	QuoteConcurrency int
	PerCallTimeout   time.Duration
	RequestTimeout   time.Duration
	PeakHours        []int
	DemandThreshold  int
}

type RoutingConfig struct {
	OSRMBaseURL   string
	GoogleMapsKey string
	// FallbackMinPerKm converts great-circle distance to ETA when no
	// routing backend is reachable.
	FallbackMinPerKm float64
	CacheTTL         time.Duration
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Routing RoutingConfig
	Predict struct {
		ModelServerURL string
		GeminiKey      string
	}
	Pricing  PricingConfig
	Matching MatchingConfig
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("RIDEMATCH_HTTP_ADDR", ":8080")
	cfg.DB.DSN = envOrDefault("RIDEMATCH_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("RIDEMATCH_REDIS_ADDR", "")

	cfg.Routing.OSRMBaseURL = envOrDefault("RIDEMATCH_OSRM_URL", "http://router.project-osrm.org")
	cfg.Routing.GoogleMapsKey = envOrDefault("RIDEMATCH_MAPS_KEY", "")
	cfg.Routing.FallbackMinPerKm = envOrDefaultFloat("RIDEMATCH_FALLBACK_MIN_PER_KM", 4.0)
	cfg.Routing.CacheTTL = envOrDefaultDuration("RIDEMATCH_ROUTE_CACHE_TTL", 2*time.Minute)

	cfg.Predict.ModelServerURL = envOrDefault("RIDEMATCH_MODEL_URL", "")
	cfg.Predict.GeminiKey = envOrDefault("GEMINI_API_KEY", "")

	cfg.Pricing.BaseFare = envOrDefaultFloat("RIDEMATCH_BASE_FARE", 30)
	cfg.Pricing.PerKm = envOrDefaultFloat("RIDEMATCH_PER_KM", 8)
	cfg.Pricing.PerMin = envOrDefaultFloat("RIDEMATCH_PER_MIN", 2)
	cfg.Pricing.Elasticity = envOrDefaultFloat("RIDEMATCH_SURGE_ELASTICITY", 0.5)

	cfg.Matching.BlendAlpha = envOrDefaultFloat("RIDEMATCH_ETA_BLEND_ALPHA", 0.6)
	cfg.Matching.DefaultTopK = envOrDefaultInt("RIDEMATCH_DEFAULT_TOP_K", 3)
	cfg.Matching.QuoteConcurrency = envOrDefaultInt("RIDEMATCH_QUOTE_CONCURRENCY", 8)
	cfg.Matching.PerCallTimeout = envOrDefaultDuration("RIDEMATCH_PROVIDER_TIMEOUT", 5*time.Second)
	cfg.Matching.RequestTimeout = envOrDefaultDuration("RIDEMATCH_REQUEST_TIMEOUT", 15*time.Second)
	cfg.Matching.PeakHours = envOrDefaultInts("RIDEMATCH_PEAK_HOURS", []int{8, 9, 10, 17, 18, 19})
	cfg.Matching.DemandThreshold = envOrDefaultInt("RIDEMATCH_DEMAND_THRESHOLD", 2)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envOrDefaultInts(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return def
		}
		out = append(out, n)
	}
	return out
}
