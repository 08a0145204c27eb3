package validation

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every FieldError.
var ErrValidation = errors.New("validation failed")

// FieldError reports the first invalid or missing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

// NewFieldError creates a FieldError for the given field.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}
