package claim

import (
	"errors"
	"fmt"
)

// ErrUnknownLabel is returned when a categorical label has no integer code.
var ErrUnknownLabel = errors.New("unknown label")

type Severity int

const (
	SeverityMinor Severity = iota
	SeverityModerate
	SeveritySevere
)

var severityLabels = []string{"Minor", "Moderate", "Severe"}

func ParseSeverity(label string) (Severity, error) {
	switch label {
	case "Minor":
		return SeverityMinor, nil
	case "Moderate":
		return SeverityModerate, nil
	case "Severe":
		return SeveritySevere, nil
	default:
		return 0, fmt.Errorf("%w: accident severity %q", ErrUnknownLabel, label)
	}
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityLabels) {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityLabels[s]
}

type PolicyType int

const (
	PolicyComprehensive PolicyType = iota
	PolicyThirdParty
)

var policyLabels = []string{"Comprehensive", "Third-Party"}

func ParsePolicyType(label string) (PolicyType, error) {
	switch label {
	case "Comprehensive":
		return PolicyComprehensive, nil
	case "Third-Party":
		return PolicyThirdParty, nil
	default:
		return 0, fmt.Errorf("%w: policy type %q", ErrUnknownLabel, label)
	}
}

func (p PolicyType) String() string {
	if p < 0 || int(p) >= len(policyLabels) {
		return fmt.Sprintf("PolicyType(%d)", int(p))
	}
	return policyLabels[p]
}

type DrivingRecord int

const (
	RecordClean DrivingRecord = iota
	RecordMinorOffenses
	RecordMajorOffenses
)

var drivingRecordLabels = []string{"Clean", "Minor Offenses", "Major Offenses"}

func ParseDrivingRecord(label string) (DrivingRecord, error) {
	switch label {
	case "Clean":
		return RecordClean, nil
	case "Minor Offenses":
		return RecordMinorOffenses, nil
	case "Major Offenses":
		return RecordMajorOffenses, nil
	default:
		return 0, fmt.Errorf("%w: driving record %q", ErrUnknownLabel, label)
	}
}

func (d DrivingRecord) String() string {
	if d < 0 || int(d) >= len(drivingRecordLabels) {
		return fmt.Sprintf("DrivingRecord(%d)", int(d))
	}
	return drivingRecordLabels[d]
}

// SeverityLabels returns the accident severity labels ordered by code.
func SeverityLabels() []string {
	return append([]string(nil), severityLabels...)
}

// PolicyTypeLabels returns the policy type labels ordered by code.
func PolicyTypeLabels() []string {
	return append([]string(nil), policyLabels...)
}

// DrivingRecordLabels returns the driving record labels ordered by code.
func DrivingRecordLabels() []string {
	return append([]string(nil), drivingRecordLabels...)
}
