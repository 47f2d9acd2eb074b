package http

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"attorneyrisk/claim"
	"attorneyrisk/predictor"
)

var printer = message.NewPrinter(language.English)

type pageData struct {
	Form           map[string]string
	Errors         map[string]string
	Error          string
	Verdict        *predictor.Verdict
	Summary        []summaryRow
	Severities     []string
	PolicyTypes    []string
	DrivingRecords []string
}

type summaryRow struct {
	Label string
	Value string
}

func newPage(form map[string]string) pageData {
	return pageData{
		Form:           form,
		Severities:     claim.SeverityLabels(),
		PolicyTypes:    claim.PolicyTypeLabels(),
		DrivingRecords: claim.DrivingRecordLabels(),
	}
}

// defaultForm mirrors the initial widget state: first option of every
// choice, minimum age and zero amounts.
func defaultForm() map[string]string {
	return map[string]string{
		"gender":                 "0",
		"insured":                "0",
		"seatbelt":               "0",
		"age":                    "18",
		"financial_loss":         "0.00",
		"accident_severity":      "Minor",
		"claim_amount_requested": "0.00",
		"claim_approval_status":  "0",
		"settlement_amount":      "0.00",
		"policy_type":            "Comprehensive",
		"driving_record":         "Clean",
	}
}

// parseClaimForm converts the posted strings into an Input. It reports
// syntax problems here and domain problems through claim.Validate.
func parseClaimForm(form url.Values) (claim.Input, map[string]string, map[string]string) {
	values := make(map[string]string, len(defaultForm()))
	errs := make(map[string]string)

	str := func(field string) string {
		v := strings.TrimSpace(form.Get(field))
		values[field] = v
		if v == "" {
			errs[field] = "This field is required"
		}
		return v
	}
	integer := func(field string) int {
		v := str(field)
		if v == "" {
			return 0
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs[field] = "Must be a whole number"
		}
		return n
	}
	amount := func(field string) float64 {
		v := str(field)
		if v == "" {
			return 0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			errs[field] = "Must be a number"
			return 0
		}
		return f
	}

	in := claim.Input{
		Gender:              integer("gender"),
		Insured:             integer("insured"),
		Seatbelt:            integer("seatbelt"),
		Age:                 integer("age"),
		FinancialLoss:       amount("financial_loss"),
		AccidentSeverity:    str("accident_severity"),
		ClaimAmount:         amount("claim_amount_requested"),
		ClaimApprovalStatus: integer("claim_approval_status"),
		SettlementAmount:    amount("settlement_amount"),
		PolicyType:          str("policy_type"),
		DrivingRecord:       str("driving_record"),
	}
	if len(errs) > 0 {
		return in, values, errs
	}

	if err := claim.Validate(in); err != nil {
		if verr, ok := err.(*claim.ValidationError); ok {
			return in, values, verr.Errors
		}
		errs["input"] = err.Error()
	}
	return in, values, errs
}

func summarize(in claim.Input) []summaryRow {
	return []summaryRow{
		{"Claimant Gender", choose(in.Gender, "Female", "Male")},
		{"Claimant was insured", choose(in.Insured, "No", "Yes")},
		{"Seatbelt used", choose(in.Seatbelt, "No", "Yes")},
		{"Claimant Age", printer.Sprintf("%d", in.Age)},
		{"Financial Loss", money(in.FinancialLoss)},
		{"Accident Severity", in.AccidentSeverity},
		{"Claim Amount Requested", money(in.ClaimAmount)},
		{"Claim Approved", choose(in.ClaimApprovalStatus, "Denied", "Approved")},
		{"Settlement Amount", money(in.SettlementAmount)},
		{"Policy Type", in.PolicyType},
		{"Driving Record", in.DrivingRecord},
	}
}

func money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func choose(v int, zero, one string) string {
	if v == 1 {
		return one
	}
	return zero
}
