// README: Prediction provider contract; feature-vector shape is versioned.
package predict

import (
	"context"
	"errors"
)

// FeatureVersion pins the feature-vector layout shared with the features
// package. Bump it together with any reorder of the vector.
const FeatureVersion = 1

// FeatureCount is the fixed length of a version-1 vector.
const FeatureCount = 6

// ErrUnavailable signals that the model could not produce a score for one
// candidate. Callers drop the candidate, never the request.
var ErrUnavailable = errors.New("prediction unavailable")

// Predictor scores a fixed-order numeric feature vector. The engine assumes
// nothing about the model family behind it, only the scalar contract.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}
