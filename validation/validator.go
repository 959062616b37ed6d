package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kbukum/linqkit/errors"
)

// FieldError is one failed check, keyed by the dotted config or record path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates failed checks so a config reports every problem at
// once instead of the first.
type Validator struct {
	failed []FieldError
}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) fail(field, format string, args ...any) *Validator {
	v.failed = append(v.failed, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	return v
}

// Errors returns the failed checks in the order they ran.
func (v *Validator) Errors() []FieldError {
	return v.failed
}

// Validate returns nil or one INVALID_INPUT error listing every field.
func (v *Validator) Validate() error {
	if len(v.failed) == 0 {
		return nil
	}
	return fieldErrors(v.failed)
}

// Required rejects blank strings.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v.fail(field, "is required")
	}
	return v
}

// OneOf rejects a non-empty value outside allowed. Empty values are left to
// Required.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" || slices.Contains(allowed, value) {
		return v
	}
	return v.fail(field, "must be one of: %s", strings.Join(allowed, ", "))
}

// Ordered rejects a range whose upper bound, named by field, is below low.
func (v *Validator) Ordered(field string, low, high decimal.Decimal) *Validator {
	if high.LessThan(low) {
		return v.fail(field, "must not be below %s", low)
	}
	return v
}

// Check records message against field when ok is false.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		return v.fail(field, "%s", message)
	}
	return v
}

func fieldErrors(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = e.Field + ": " + e.Message
	}
	return errors.Validation(strings.Join(messages, "; ")).
		WithDetail("fields", fields)
}
