// README: Deterministic linear models used when no external model is wired.
package predict

import (
	"context"
	"fmt"
)

// LinearModel is a weighted sum over the feature vector. It stands in for the
// trained ETA and demand models in development and benches, and serves as the
// fallback when no model server is configured.
type LinearModel struct {
	Bias    float64
	Weights []float64
}

func (m *LinearModel) Predict(_ context.Context, features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("%w: expected %d features, got %d", ErrUnavailable, len(m.Weights), len(features))
	}
	v := m.Bias
	for i, f := range features {
		v += m.Weights[i] * f
	}
	return v, nil
}

// NewDefaultETAModel approximates pickup ETA in minutes from a version-1
// vector: roughly 3 min/km, slowed by traffic and peak hours.
func NewDefaultETAModel() *LinearModel {
	return &LinearModel{
		Bias: 2.0,
		// [distance_km, traffic_level, hour, day_of_week, is_peak, demand_index]
		Weights: []float64{3.0, 1.5, 0, 0, 2.0, 1.0},
	}
}

// NewDefaultDemandModel maps a version-1 vector to a demand level; the surge
// formula compares its output against supply.
func NewDefaultDemandModel() *LinearModel {
	return &LinearModel{
		Bias:    1.0,
		Weights: []float64{0, 0.5, 0, 0, 1.0, 1.5},
	}
}
