package predictor

import "fmt"

const (
	involvedFormat    = "Attorney WILL be involved. (Confidence: %.2f%%)"
	notInvolvedFormat = "No attorney involvement expected. (Confidence: %.2f%%)"
)

// Verdict is the outcome of one prediction. Confidence is a percentage in
// [0, 100] for the reported branch.
type Verdict struct {
	Involved            bool    `json:"involved"`
	Confidence          float64 `json:"confidence"`
	PositiveProbability float64 `json:"positive_probability"`
	Message             string  `json:"message"`
}

// NewVerdict reports the positive-class probability when involved and its
// complement otherwise.
func NewVerdict(involved bool, positive float64) Verdict {
	v := Verdict{
		Involved:            involved,
		PositiveProbability: positive,
	}
	if involved {
		v.Confidence = positive * 100
		v.Message = fmt.Sprintf(involvedFormat, v.Confidence)
	} else {
		v.Confidence = 100 - positive*100
		v.Message = fmt.Sprintf(notInvolvedFormat, v.Confidence)
	}
	return v
}

// Opposite returns the verdict the other branch would have produced for the
// same probability.
func (v Verdict) Opposite() Verdict {
	return NewVerdict(!v.Involved, v.PositiveProbability)
}
