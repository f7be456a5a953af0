package common

import (
	"fmt"
	"strings"
)

// ValidationError reports which request fields failed validation.
// It unwraps to ErrInvalidInput so callers can match the whole class
// with errors.Is while still listing the offending fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	return fmt.Sprintf("%v: %s", ErrInvalidInput, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError builds a ValidationError for the given field names.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
