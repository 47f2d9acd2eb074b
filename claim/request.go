package claim

// Request is the JSON body of the prediction API. Every field is a pointer
// so that an omitted field is told apart from an explicit zero.
type Request struct {
	Gender              *int     `json:"gender" validate:"required"`
	Insured             *int     `json:"insured" validate:"required"`
	Seatbelt            *int     `json:"seatbelt" validate:"required"`
	Age                 *int     `json:"age" validate:"required"`
	FinancialLoss       *float64 `json:"financial_loss" validate:"required"`
	AccidentSeverity    *string  `json:"accident_severity" validate:"required"`
	ClaimAmount         *float64 `json:"claim_amount_requested" validate:"required"`
	ClaimApprovalStatus *int     `json:"claim_approval_status" validate:"required"`
	SettlementAmount    *float64 `json:"settlement_amount" validate:"required"`
	PolicyType          *string  `json:"policy_type" validate:"required"`
	DrivingRecord       *string  `json:"driving_record" validate:"required"`
}

// Input checks that every field was supplied, then validates the domain of
// the resulting claim.
func (r Request) Input() (Input, error) {
	if err := instance().Struct(r); err != nil {
		if fields := validationFields(err); fields != nil {
			return Input{}, &ValidationError{Errors: fields}
		}
		return Input{}, err
	}

	in := Input{
		Gender:              *r.Gender,
		Insured:             *r.Insured,
		Seatbelt:            *r.Seatbelt,
		Age:                 *r.Age,
		FinancialLoss:       *r.FinancialLoss,
		AccidentSeverity:    *r.AccidentSeverity,
		ClaimAmount:         *r.ClaimAmount,
		ClaimApprovalStatus: *r.ClaimApprovalStatus,
		SettlementAmount:    *r.SettlementAmount,
		PolicyType:          *r.PolicyType,
		DrivingRecord:       *r.DrivingRecord,
	}
	if err := Validate(in); err != nil {
		return Input{}, err
	}
	return in, nil
}
