// Package service defines error kinds shared by the domain services so
// handlers can map failures to responses with errors.Is and errors.As.
package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a showing or booking does not exist.
var ErrNotFound = errors.New("resource not found")

// ErrBookingState is the sentinel wrapped by BookingStateError.
var ErrBookingState = errors.New("booking state error")

// ErrValidation is the sentinel wrapped by ValidationError.
var ErrValidation = errors.New("validation error")

// BookingStateError signals that a booking or showing is in a state
// that forbids the requested operation (terminal booking, cancelled or
// housefull showing, showing already started).
type BookingStateError struct {
	Reason string
}

func (e *BookingStateError) Error() string { return e.Reason }

func (e *BookingStateError) Unwrap() error { return ErrBookingState }

// ValidationError signals a malformed request before any state was
// touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewBookingStateError(format string, args ...any) error {
	return &BookingStateError{Reason: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
