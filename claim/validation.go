package claim

import (
	"fmt"
	"log"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps json field names to a human readable message.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("field '%s': %s", field, e.Errors[field]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		registerRules(v)
		validate = v
	})
	return validate
}

func registerRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("severity", func(fl validator.FieldLevel) bool {
		_, err := ParseSeverity(fl.Field().String())
		return err == nil
	})
	mustRegister("policy_type", func(fl validator.FieldLevel) bool {
		_, err := ParsePolicyType(fl.Field().String())
		return err == nil
	})
	mustRegister("driving_record", func(fl validator.FieldLevel) bool {
		_, err := ParseDrivingRecord(fl.Field().String())
		return err == nil
	})
}

// Validate enforces the domain of every field. A nil error means the input
// can be handed to the prediction adapter.
func Validate(in Input) error {
	err := instance().Struct(in)
	if err == nil {
		return nil
	}
	if _, ok := err.(validator.ValidationErrors); !ok {
		return err
	}
	return &ValidationError{Errors: validationFields(err)}
}

// validationFields flattens validator errors into field messages. It
// returns nil when err carries no field errors.
func validationFields(err error) map[string]string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return nil
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = errorMessage(fe)
	}
	return fields
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "severity":
		return "Must be one of: " + strings.Join(severityLabels, ", ")
	case "policy_type":
		return "Must be one of: " + strings.Join(policyLabels, ", ")
	case "driving_record":
		return "Must be one of: " + strings.Join(drivingRecordLabels, ", ")
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
