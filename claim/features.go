package claim

import "fmt"

// NumFeatures is the width of the vector the classifier was trained on.
const NumFeatures = 11

// Vector is the fixed-order numeric encoding of a claim. It is an array so
// that it can be compared and used as a map key.
type Vector [NumFeatures]float64

// Input holds the claim attributes collected by the form. Categorical
// fields carry their display labels and are mapped to codes by Vector.
type Input struct {
	Gender              int     `json:"gender" validate:"oneof=0 1"`
	Insured             int     `json:"insured" validate:"oneof=0 1"`
	Seatbelt            int     `json:"seatbelt" validate:"oneof=0 1"`
	Age                 int     `json:"age" validate:"gte=18,lte=100"`
	FinancialLoss       float64 `json:"financial_loss" validate:"gte=0"`
	AccidentSeverity    string  `json:"accident_severity" validate:"required,severity"`
	ClaimAmount         float64 `json:"claim_amount_requested" validate:"gte=0"`
	ClaimApprovalStatus int     `json:"claim_approval_status" validate:"oneof=0 1"`
	SettlementAmount    float64 `json:"settlement_amount" validate:"gte=0"`
	PolicyType          string  `json:"policy_type" validate:"required,policy_type"`
	DrivingRecord       string  `json:"driving_record" validate:"required,driving_record"`
}

// FeatureNames returns the column names in the order the model expects.
func FeatureNames() []string {
	return []string{
		"CLMSEX",
		"CLMINSUR",
		"SEATBELT",
		"CLMAGE",
		"LOSS",
		"Accident_Severity",
		"Claim_Amount_Requested",
		"Claim_Approval_Status",
		"Settlement_Amount",
		"Policy_Type",
		"Driving_Record",
	}
}

// Vector maps the categorical labels to their codes and lays the fields out
// in FeatureNames order. Range checks belong to Validate.
func (in Input) Vector() (Vector, error) {
	severity, err := ParseSeverity(in.AccidentSeverity)
	if err != nil {
		return Vector{}, err
	}
	policy, err := ParsePolicyType(in.PolicyType)
	if err != nil {
		return Vector{}, err
	}
	record, err := ParseDrivingRecord(in.DrivingRecord)
	if err != nil {
		return Vector{}, err
	}

	return Vector{
		float64(in.Gender),
		float64(in.Insured),
		float64(in.Seatbelt),
		float64(in.Age),
		in.FinancialLoss,
		float64(severity),
		in.ClaimAmount,
		float64(in.ClaimApprovalStatus),
		in.SettlementAmount,
		float64(policy),
		float64(record),
	}, nil
}

// Slice returns a copy of the vector as a slice.
func (v Vector) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, v[:])
	return out
}

func (v Vector) String() string {
	return fmt.Sprintf("%v", [NumFeatures]float64(v))
}
