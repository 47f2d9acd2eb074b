package ml

import (
	"errors"
	"fmt"
)

var (
	ErrMissingArtifact  = errors.New("model artifact not found")
	ErrSchemaMismatch   = errors.New("feature schema mismatch")
	ErrFeatureCount     = errors.New("feature count mismatch")
	ErrUnsupportedModel = errors.New("unsupported model type")
	ErrInvalidModel     = errors.New("invalid model")
)

// Classifier is a loaded, read-only binary classifier.
type Classifier interface {
	Predict(features []float64) (int, error)
	PredictProba(features []float64) ([]float64, error)
}

func checkWidth(features []float64, want int) error {
	if len(features) != want {
		return fmt.Errorf("%w: got %d features, model expects %d", ErrFeatureCount, len(features), want)
	}
	return nil
}

// argmax returns the first index holding the largest value.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
