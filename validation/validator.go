package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/lipsync/errors"
)

// FieldError is a validation failure for one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects field errors from chained checks.
type Validator struct {
	prefix string
	errors []FieldError
}

// New creates a Validator. Field names are reported under prefix when one
// is given, e.g. New("whisperx") reports "whisperx.batch_size".
func New(prefix ...string) *Validator {
	return &Validator{prefix: strings.Join(prefix, ".")}
}

// AddError records a field error.
func (v *Validator) AddError(field, message string) {
	if v.prefix != "" {
		field = v.prefix + "." + field
	}
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool { return len(v.errors) > 0 }

// Errors returns the collected errors.
func (v *Validator) Errors() []FieldError { return v.errors }

// Validate returns the collected errors as one AppError, or nil.
func (v *Validator) Validate() error {
	if !v.HasErrors() {
		return nil
	}
	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = e.Field + ": " + e.Message
	}
	appErr := apperrors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{"fields": v.errors}
	return appErr
}

// Required fails on a blank string.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// OptionalUUID fails on a non-empty string that is not a UUID.
func (v *Validator) OptionalUUID(field, value string) *Validator {
	if value == "" {
		return v
	}
	if _, err := uuid.Parse(value); err != nil {
		v.AddError(field, "must be a valid UUID")
	}
	return v
}

// OneOf fails on a non-empty value outside allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		v.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	}
	return v
}

// Min fails when value < minVal.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		v.AddError(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return v
}

// Fraction fails when value is outside [0, 1].
func (v *Validator) Fraction(field string, value float64) *Validator {
	if value < 0 || value > 1 {
		v.AddError(field, "must be between 0 and 1")
	}
	return v
}

// NonNegative fails on a negative duration.
func (v *Validator) NonNegative(field string, value time.Duration) *Validator {
	if value < 0 {
		v.AddError(field, "must not be negative")
	}
	return v
}

// Custom records message when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Merge appends another validator's errors, keeping their field names.
func (v *Validator) Merge(other *Validator) *Validator {
	if other != nil {
		v.errors = append(v.errors, other.errors...)
	}
	return v
}
