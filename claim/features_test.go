package claim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() Input {
	return Input{
		Gender:              1,
		Insured:             0,
		Seatbelt:            1,
		Age:                 42,
		FinancialLoss:       1520.5,
		AccidentSeverity:    "Severe",
		ClaimAmount:         8000,
		ClaimApprovalStatus: 1,
		SettlementAmount:    4200.25,
		PolicyType:          "Third-Party",
		DrivingRecord:       "Minor Offenses",
	}
}

func TestInputVectorOrder(t *testing.T) {
	vec, err := sampleInput().Vector()
	require.NoError(t, err)

	want := Vector{1, 0, 1, 42, 1520.5, 2, 8000, 1, 4200.25, 1, 1}
	assert.Equal(t, want, vec)
	assert.Len(t, FeatureNames(), NumFeatures)
}

func TestInputVectorUnknownLabel(t *testing.T) {
	in := sampleInput()
	in.DrivingRecord = "Spotless"

	_, err := in.Vector()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLabel))
}

func TestVectorSliceIsCopy(t *testing.T) {
	vec := Vector{1, 2, 3}
	s := vec.Slice()
	s[0] = 99
	assert.Equal(t, 1.0, vec[0])
	assert.Len(t, s, NumFeatures)
}
