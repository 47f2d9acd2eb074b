package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"attorneyrisk/claim"
	"attorneyrisk/ml"
)

var ErrBadProbability = errors.New("classifier returned invalid probabilities")

// Predictor turns a claim into a verdict using a classifier that was loaded
// once at startup. It holds no per-request state.
type Predictor struct {
	model  ml.Classifier
	cache  *lru.Cache[claim.Vector, Verdict]
	logger *zap.Logger
}

type Option func(*Predictor)

// WithCache memoizes verdicts per vector. The classifier must be
// deterministic. A size of zero or less disables the cache.
func WithCache(size int) Option {
	return func(p *Predictor) {
		if size <= 0 {
			return
		}
		cache, err := lru.New[claim.Vector, Verdict](size)
		if err == nil {
			p.cache = cache
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Predictor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func New(model ml.Classifier, opts ...Option) *Predictor {
	p := &Predictor{
		model:  model,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict maps the input to its feature vector and classifies it. The input
// is expected to have passed claim.Validate; unknown categorical labels are
// still rejected with claim.ErrUnknownLabel.
func (p *Predictor) Predict(ctx context.Context, in claim.Input) (Verdict, error) {
	vec, err := in.Vector()
	if err != nil {
		return Verdict{}, err
	}
	return p.PredictVector(ctx, vec)
}

func (p *Predictor) PredictVector(ctx context.Context, vec claim.Vector) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}
	if p.cache != nil {
		if v, ok := p.cache.Get(vec); ok {
			return v, nil
		}
	}

	features := vec.Slice()
	label, err := p.model.Predict(features)
	if err != nil {
		return Verdict{}, fmt.Errorf("predict label: %w", err)
	}
	proba, err := p.model.PredictProba(features)
	if err != nil {
		return Verdict{}, fmt.Errorf("predict probability: %w", err)
	}
	positive, err := positiveProbability(proba)
	if err != nil {
		return Verdict{}, err
	}

	v := NewVerdict(label == 1, positive)
	p.logger.Debug("prediction",
		zap.Int("label", label),
		zap.Float64("positive_probability", positive),
		zap.Float64("confidence", v.Confidence))

	if p.cache != nil {
		p.cache.Add(vec, v)
	}
	return v, nil
}

func positiveProbability(proba []float64) (float64, error) {
	if len(proba) < 2 {
		return 0, fmt.Errorf("%w: got %d classes", ErrBadProbability, len(proba))
	}
	for i, p := range proba {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return 0, fmt.Errorf("%w: class %d has probability %v", ErrBadProbability, i, p)
		}
	}
	return proba[1], nil
}
