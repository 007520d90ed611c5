package errors

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// FieldError is every problem found with one input field
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// ValidationError collects field errors in the order they were found.
// ToError turns it into an InvalidArgument error carrying the fields as meta.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if len(v.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, strings.Join(f.Messages, ", ")))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

// AddFieldError records message against field
func (v *ValidationError) AddFieldError(field, message string) {
	for i := range v.Fields {
		if v.Fields[i].Field == field {
			v.Fields[i].Messages = append(v.Fields[i].Messages, message)
			return
		}
	}
	v.Fields = append(v.Fields, FieldError{Field: field, Messages: []string{message}})
}

// HasErrors reports whether any field failed
func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// Messages returns the messages recorded for field
func (v *ValidationError) Messages(field string) []string {
	for _, f := range v.Fields {
		if f.Field == field {
			return f.Messages
		}
	}
	return nil
}

// ToError converts the validation error to an InvalidArgument error
func (v *ValidationError) ToError() *Error {
	if !v.HasErrors() {
		return nil
	}
	return InvalidArgument(v.Error()).WithMeta("validation_errors", v.Fields)
}

// ValidationBuilder accumulates field errors. Build returns nil when every
// check passed.
type ValidationBuilder struct {
	err *ValidationError
}

// NewValidationBuilder creates a new validation builder
func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{err: NewValidationError()}
}

// Field adds a validation error for a field
func (vb *ValidationBuilder) Field(field, message string) *ValidationBuilder {
	vb.err.AddFieldError(field, message)
	return vb
}

// Fieldf adds a formatted validation error for a field
func (vb *ValidationBuilder) Fieldf(field, format string, args ...interface{}) *ValidationBuilder {
	return vb.Field(field, fmt.Sprintf(format, args...))
}

// RequiredField adds a required field error
func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

// InvalidField adds an invalid field error
func (vb *ValidationBuilder) InvalidField(field, reason string) *ValidationBuilder {
	return vb.Fieldf(field, "is invalid: %s", reason)
}

// Build returns the error if there are validation errors, nil otherwise
func (vb *ValidationBuilder) Build() error {
	if vb.err.HasErrors() {
		return vb.err.ToError()
	}
	return nil
}

// ValidateRequired checks that a string field is not blank
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateRange checks if a value is within a range
func ValidateRange(field string, value, minValue, maxValue int, vb *ValidationBuilder) {
	if value < minValue || value > maxValue {
		vb.Fieldf(field, "must be between %d and %d", minValue, maxValue)
	}
}

// ValidateMin checks that value is at least minValue
func ValidateMin(field string, value, minValue int, vb *ValidationBuilder) {
	if value < minValue {
		vb.Fieldf(field, "must be at least %d", minValue)
	}
}

// ValidateEnum checks that value is one of allowed. It accepts any string
// type so steps, modes and facets can be passed without conversion.
func ValidateEnum[T ~string](field string, value T, allowed []T, vb *ValidationBuilder) {
	if slices.Contains(allowed, value) {
		return
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	vb.Fieldf(field, "must be one of: %s", strings.Join(names, ", "))
}

// ValidatePayload checks that a payload was supplied. Its shape is left to
// the ruleset schema.
func ValidatePayload(field string, raw []byte, vb *ValidationBuilder) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		vb.RequiredField(field)
	}
}
