package api

import (
	"errors"
	"fmt"
)

// ValidationError reports a tool invoked with a missing or malformed argument.
// It is always detected before any controller call is made.
type ValidationError struct {
	// Field is the offending argument name, e.g. "device_id".
	Field string
	// Message describes the problem, e.g. "is required".
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Message)
}

// NewRequiredError creates a ValidationError for a missing required argument.
func NewRequiredError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "is required"}
}

// IsValidation checks if an error is or wraps a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
