package ml

import (
	"fmt"
	"math"
)

// LogisticRegression is a binary linear model: P(1) = sigmoid(w.x + b).
type LogisticRegression struct {
	intercept    float64
	coefficients []float64
}

func NewLogisticRegression(intercept float64, coefficients []float64) (*LogisticRegression, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("%w: logistic regression has no coefficients", ErrInvalidModel)
	}
	for i, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: coefficient %d is not finite", ErrInvalidModel, i)
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("%w: intercept is not finite", ErrInvalidModel)
	}
	return &LogisticRegression{
		intercept:    intercept,
		coefficients: append([]float64(nil), coefficients...),
	}, nil
}

func (lr *LogisticRegression) Predict(features []float64) (int, error) {
	z, err := lr.decision(features)
	if err != nil {
		return 0, err
	}
	if z > 0 {
		return 1, nil
	}
	return 0, nil
}

func (lr *LogisticRegression) PredictProba(features []float64) ([]float64, error) {
	z, err := lr.decision(features)
	if err != nil {
		return nil, err
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func (lr *LogisticRegression) NumFeatures() int {
	return len(lr.coefficients)
}

func (lr *LogisticRegression) decision(features []float64) (float64, error) {
	if err := checkWidth(features, len(lr.coefficients)); err != nil {
		return 0, err
	}
	z := lr.intercept
	for i, w := range lr.coefficients {
		z += w * features[i]
	}
	return z, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
