// README: Feature builder; produces the fixed-order vector fed to prediction models.
package features

import (
	"time"

	"ridematch/internal/config"
	"ridematch/internal/predict"
)

// Context carries the traffic/time signals of one ride request. The level form
// (TrafficLevel only) is canonical; when Explicit is set the request supplies
// its own hour/day/peak flags and those win over the wall clock.
type Context struct {
	TrafficLevel int

	Explicit  bool
	Hour      int
	DayOfWeek int
	// IsWeekend is accepted at the boundary but not part of the version-1
	// vector; including it means bumping predict.FeatureVersion.
	IsWeekend bool
	IsPeak    bool
}

// Builder derives the version-1 feature vector:
//
//	[distance_km, traffic_level, hour, day_of_week, is_peak, demand_index]
//
// The order is a contract with the prediction providers; reordering it means
// bumping predict.FeatureVersion.
type Builder struct {
	peakHours       map[int]bool
	demandThreshold int

	// now is injectable so tests can pin dispatch time.
	now func() time.Time
}

func NewBuilder(cfg config.MatchingConfig) *Builder {
	peak := make(map[int]bool, len(cfg.PeakHours))
	for _, h := range cfg.PeakHours {
		peak[h] = true
	}
	return &Builder{
		peakHours:       peak,
		demandThreshold: cfg.DemandThreshold,
		now:             time.Now,
	}
}

// WithClock replaces the wall clock; test hook.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Vector builds the feature vector for one candidate distance under the given
// traffic context. Time features come from the wall clock at dispatch, not
// from any timestamp on the request, unless the context is explicit.
func (b *Builder) Vector(distanceKm float64, tc Context) []float64 {
	hour, day, isPeak := b.timeFeatures(tc)

	demandIndex := 0.0
	if tc.TrafficLevel >= b.demandThreshold {
		demandIndex = 1.0
	}

	v := make([]float64, 0, predict.FeatureCount)
	v = append(v,
		distanceKm,
		float64(tc.TrafficLevel),
		float64(hour),
		float64(day),
		boolToFloat(isPeak),
		demandIndex,
	)
	return v
}

func (b *Builder) timeFeatures(tc Context) (hour, day int, isPeak bool) {
	if tc.Explicit {
		return tc.Hour, tc.DayOfWeek, tc.IsPeak
	}
	now := b.now()
	return now.Hour(), int(now.Weekday()), b.peakHours[now.Hour()]
}

func boolToFloat(v bool) float64 {
	if v {
		return 1.0
	}
	return 0.0
}
