package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrAlreadyExists    = errors.New("already exists")
	ErrValidation       = errors.New("validation error")
	ErrUnsupported      = errors.New("not supported by the store")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned before any remote call is made.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// RemoteCallError wraps a failed read against the remote store.
type RemoteCallError struct {
	Op  string
	Err error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("remote call %s failed: %v", e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// MutationError wraps a failed write against the remote store.
type MutationError struct {
	Op     string
	Reason string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("mutation %s failed: %s", e.Op, e.Reason)
}

func (e *MutationError) Unwrap() error { return e.Err }

// NewMutationError builds a MutationError whose reason is the cause's message.
func NewMutationError(op string, err error) *MutationError {
	return &MutationError{Op: op, Reason: err.Error(), Err: err}
}
