// README: Offline benchmark; drives matching passes in-process over synthetic fleets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	for _, size := range cfg.FleetSizes {
		res, err := runFleet(ctx, cfg, size)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fleet %d: %v\n", size, err)
			os.Exit(1)
		}
		fmt.Printf("fleet=%-6d passes=%-5d quoted=%-6d p50=%-10s p99=%-10s max=%s\n",
			size, res.Passes, res.Quoted, res.P50, res.P99, res.Max)
	}
}

type Config struct {
	FleetSizes  []int
	Passes      int
	Concurrency int
	TopK        int
	Timeout     time.Duration
	ProviderLag time.Duration
}

func loadConfig() Config {
	var cfg Config
	var sizes string
	flag.StringVar(&sizes, "fleets", envOrDefault("RIDEMATCH_BENCH_FLEETS", "10,100,1000"), "comma-separated fleet sizes")
	flag.IntVar(&cfg.Passes, "passes", envOrDefaultInt("RIDEMATCH_BENCH_PASSES", 50), "matching passes per fleet size")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("RIDEMATCH_BENCH_CONCURRENCY", 8), "quote worker limit")
	flag.IntVar(&cfg.TopK, "top-k", envOrDefaultInt("RIDEMATCH_BENCH_TOP_K", 3), "result bound per pass")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("RIDEMATCH_BENCH_TIMEOUT", 5*time.Minute), "total timeout")
	flag.DurationVar(&cfg.ProviderLag, "provider-lag", envOrDefaultDuration("RIDEMATCH_BENCH_PROVIDER_LAG", 0), "simulated per-call provider latency")
	flag.Parse()

	for _, s := range strings.Split(sizes, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			cfg.FleetSizes = append(cfg.FleetSizes, n)
		}
	}
	if len(cfg.FleetSizes) == 0 {
		cfg.FleetSizes = []int{10, 100, 1000}
	}
	return cfg
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

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
