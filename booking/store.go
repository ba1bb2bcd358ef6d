package booking

import (
	"context"
	"errors"
	"time"

	"github.com/slotbooking/booking-app/models"
)

// Errors returned by Store implementations.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateReference = errors.New("booking reference already exists")
)

// Store opens per-operation transactions. Every reservation operation runs
// inside exactly one Transact call; if fn returns an error the transaction is
// rolled back and nothing is applied.
type Store interface {
	Transact(ctx context.Context, fn func(Tx) error) error
}

// Tx is the slice of storage the reservation transactions need. All reads and
// writes happen inside the surrounding transaction.
type Tx interface {
	// LockTimeSlot loads a slot under an exclusive row lock held until the
	// transaction commits or rolls back. Concurrent lockers of the same slot
	// block here and re-read the updated row once the holder finishes.
	LockTimeSlot(uid string) (*models.TimeSlot, error)

	SetTimeSlotStatus(uid string, status models.AvailabilityStatus, at time.Time) error

	GetAppointment(uid string) (*models.Appointment, error)

	// CreateAppointment returns ErrDuplicateReference when the booking
	// reference collides with an existing one, leaving the surrounding
	// transaction usable for a retry.
	CreateAppointment(a *models.Appointment) error

	SaveAppointment(a *models.Appointment) error

	CreateNotification(n *models.EmailNotification) error
}
