package booking

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced to the routing layer. Everything else that goes wrong
// inside a transaction is wrapped in a StorageError and rolled back whole.
var (
	ErrSlotNotFound        = errors.New("time slot not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotUnavailable     = errors.New("time slot is not available")
	ErrUnauthorized        = errors.New("not authorized to manage this appointment")
	ErrAppointmentClosed   = errors.New("appointment is cancelled")
)

// ValidationError rejects malformed input before any store interaction.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// StorageError wraps a store failure. The transaction that produced it has
// been rolled back entirely. Retryable marks failures the caller may safely
// repeat, such as a booking-reference collision.
type StorageError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
