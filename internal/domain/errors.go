package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services, repositories and controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrDuplicateSlug      = errors.New("an event with this slug already exists")
	ErrDuplicateBooking   = errors.New("this email has already booked the event")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError reports malformed or missing input for a single field.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError returns a ValidationError for field with the given message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a lookup miss on a primary resource.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError returns a NotFoundError for the given entity name.
func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}
