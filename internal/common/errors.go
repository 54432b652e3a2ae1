package common

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")

	ErrMessageNotFound = fmt.Errorf("message %w", ErrNotFound)
	// ErrInvalidMessageID is returned for ids that can never match a stored
	// message. It is a not-found error so callers treat it the same way.
	ErrInvalidMessageID = fmt.Errorf("invalid message id: %w", ErrMessageNotFound)

	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
