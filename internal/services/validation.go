package services

import (
	"fmt"
	"strings"
)

// FieldViolation describes a single invalid or missing input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every violation found in a request, not just the
// first one.
type ValidationError struct {
	Violations []FieldViolation
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(violations []FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}
