package claim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsDomain(t *testing.T) {
	assert.NoError(t, Validate(sampleInput()))
}

func TestValidateAgeBoundaries(t *testing.T) {
	for _, age := range []int{18, 100} {
		in := sampleInput()
		in.Age = age
		assert.NoError(t, Validate(in), "age %d", age)
	}

	for _, age := range []int{17, 101} {
		in := sampleInput()
		in.Age = age
		err := Validate(in)
		require.Error(t, err, "age %d", age)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Errors, "age")
	}
}

func TestValidateRejectsOutOfDomain(t *testing.T) {
	in := sampleInput()
	in.Gender = 2
	in.FinancialLoss = -1
	in.SettlementAmount = math.NaN()
	in.AccidentSeverity = "Extreme"
	in.PolicyType = ""

	err := Validate(in)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	assert.Contains(t, verr.Errors, "gender")
	assert.Contains(t, verr.Errors, "financial_loss")
	assert.Contains(t, verr.Errors, "settlement_amount")
	assert.Contains(t, verr.Errors, "accident_severity")
	assert.Equal(t, "This field is required", verr.Errors["policy_type"])
	assert.Contains(t, err.Error(), "field 'gender'")
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string { return &v }

func TestRequestInput(t *testing.T) {
	req := Request{
		Gender:              intPtr(0),
		Insured:             intPtr(0),
		Seatbelt:            intPtr(0),
		Age:                 intPtr(18),
		FinancialLoss:       floatPtr(0),
		AccidentSeverity:    stringPtr("Minor"),
		ClaimAmount:         floatPtr(0),
		ClaimApprovalStatus: intPtr(0),
		SettlementAmount:    floatPtr(0),
		PolicyType:          stringPtr("Comprehensive"),
		DrivingRecord:       stringPtr("Clean"),
	}
	in, err := req.Input()
	require.NoError(t, err)
	assert.Equal(t, 18, in.Age)
	assert.Equal(t, "Clean", in.DrivingRecord)

	req.Seatbelt = nil
	req.SettlementAmount = nil
	_, err = req.Input()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"seatbelt":          "This field is required",
		"settlement_amount": "This field is required",
	}, verr.Errors)

	req.Seatbelt = intPtr(2)
	req.SettlementAmount = floatPtr(10)
	_, err = req.Input()
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "seatbelt")
}
