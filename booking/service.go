package booking

import (
	"context"
	"errors"
	"time"

	"github.com/slotbooking/booking-app/models"
	"github.com/slotbooking/booking-app/utils"
)

// referenceAttempts bounds in-transaction retries when a freshly generated
// booking reference collides with an existing one.
const referenceAttempts = 3

// Requester identifies who is asking for a reschedule or cancellation.
type Requester struct {
	UserUID string
	Role    string
}

// mayManage allows the owning user or any admin. Guest appointments have no
// owner, so only admins can touch them.
func (r Requester) mayManage(a *models.Appointment) bool {
	if r.Role == models.RoleAdmin {
		return true
	}
	return a.OwnedBy(r.UserUID)
}

type BookInput struct {
	TimeSlotUID   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	UserUID       string // empty for guest bookings
}

func (in BookInput) Validate() error {
	switch {
	case in.TimeSlotUID == "":
		return &ValidationError{Field: "time_slot_uid"}
	case in.CustomerName == "":
		return &ValidationError{Field: "customer_name"}
	case in.CustomerEmail == "":
		return &ValidationError{Field: "customer_email"}
	case in.CustomerPhone == "":
		return &ValidationError{Field: "customer_phone"}
	}
	return nil
}

type RescheduleInput struct {
	AppointmentUID string
	NewTimeSlotUID string
	Requester      Requester
	Notes          string
}

func (in RescheduleInput) Validate() error {
	switch {
	case in.AppointmentUID == "":
		return &ValidationError{Field: "appointment_uid"}
	case in.NewTimeSlotUID == "":
		return &ValidationError{Field: "new_time_slot_uid"}
	case in.Requester.UserUID == "":
		return &ValidationError{Field: "requester"}
	}
	return nil
}

type CancelInput struct {
	AppointmentUID string
	Requester      Requester
}

func (in CancelInput) Validate() error {
	switch {
	case in.AppointmentUID == "":
		return &ValidationError{Field: "appointment_uid"}
	case in.Requester.UserUID == "":
		return &ValidationError{Field: "requester"}
	}
	return nil
}

// Booker is the reservation surface consumed by the HTTP layer.
type Booker interface {
	Book(ctx context.Context, in BookInput) (*models.Appointment, error)
	Reschedule(ctx context.Context, in RescheduleInput) (*models.Appointment, error)
	Cancel(ctx context.Context, in CancelInput) (*models.Appointment, error)
}

// Service implements the slot reservation transactions. It guarantees a slot
// is never double-booked and that slot and appointment state stay mutually
// consistent under concurrent requests. All three operations are all-or-
// nothing: any failure after the transaction opens rolls back every write.
type Service struct {
	store Store
	now   func() time.Time

	newID        func(prefix string) string
	newReference func() string
}

func NewService(store Store) *Service {
	return &Service{
		store:        store,
		now:          time.Now,
		newID:        utils.GenerateID,
		newReference: utils.GenerateBookingReference,
	}
}

// Book claims an available slot for a customer. The slot row is locked first;
// the status re-check after the lock defends against a stale read while
// waiting on a concurrent booker of the same slot.
func (s *Service) Book(ctx context.Context, in BookInput) (*models.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var booked *models.Appointment
	err := s.store.Transact(ctx, func(tx Tx) error {
		slot, err := tx.LockTimeSlot(in.TimeSlotUID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrSlotNotFound
			}
			return &StorageError{Op: "lock time slot", Err: err}
		}
		if !slot.IsAvailable() {
			return ErrSlotUnavailable
		}

		now := s.now()
		// The row lock is what actually excludes concurrent bookers; the
		// transient "locked" status keeps an audit trail of intent.
		if err := tx.SetTimeSlotStatus(slot.TimeSlotUID, models.SlotLocked, now); err != nil {
			return &StorageError{Op: "lock slot status", Err: err}
		}

		appointment, err := s.insertAppointment(tx, in, now)
		if err != nil {
			return err
		}

		if err := tx.SetTimeSlotStatus(slot.TimeSlotUID, models.SlotBooked, now); err != nil {
			return &StorageError{Op: "book slot status", Err: err}
		}
		if err := s.recordNotification(tx, appointment, models.NotificationBookingConfirmation, now); err != nil {
			return err
		}

		booked = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booked, nil
}

// insertAppointment creates the appointment row, regenerating the booking
// reference on a collision. Collisions that survive every attempt surface as
// a retryable storage failure rather than a fatal one.
func (s *Service) insertAppointment(tx Tx, in BookInput, now time.Time) (*models.Appointment, error) {
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		appointment := &models.Appointment{
			AppointmentUID:   s.newID("apt"),
			UserUID:          optional(in.UserUID),
			TimeSlotUID:      in.TimeSlotUID,
			CustomerName:     in.CustomerName,
			CustomerEmail:    in.CustomerEmail,
			CustomerPhone:    in.CustomerPhone,
			Notes:            optional(in.Notes),
			BookingReference: s.newReference(),
			Status:           models.StatusBooked,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		err := tx.CreateAppointment(appointment)
		if err == nil {
			return appointment, nil
		}
		if errors.Is(err, ErrDuplicateReference) {
			continue
		}
		return nil, &StorageError{Op: "create appointment", Err: err}
	}
	return nil, &StorageError{Op: "create appointment", Retryable: true, Err: ErrDuplicateReference}
}

// Reschedule moves an appointment to a new slot, freeing the old one in the
// same transaction. Both slot rows are locked in lexicographic uid order so
// two mirrored reschedules cannot deadlock against each other.
func (s *Service) Reschedule(ctx context.Context, in RescheduleInput) (*models.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var rescheduled *models.Appointment
	err := s.store.Transact(ctx, func(tx Tx) error {
		appointment, err := tx.GetAppointment(in.AppointmentUID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrAppointmentNotFound
			}
			return &StorageError{Op: "fetch appointment", Err: err}
		}
		// Authorization is checked before any row is touched.
		if !in.Requester.mayManage(appointment) {
			return ErrUnauthorized
		}
		if !appointment.CanTransition(models.StatusRescheduled) {
			return ErrAppointmentClosed
		}

		oldSlotUID := appointment.TimeSlotUID
		newSlot, err := s.lockSlotPair(tx, oldSlotUID, in.NewTimeSlotUID)
		if err != nil {
			return err
		}
		if !newSlot.IsAvailable() {
			return ErrSlotUnavailable
		}

		now := s.now()
		if err := tx.SetTimeSlotStatus(oldSlotUID, models.SlotAvailable, now); err != nil {
			return &StorageError{Op: "release old slot", Err: err}
		}
		if err := tx.SetTimeSlotStatus(newSlot.TimeSlotUID, models.SlotBooked, now); err != nil {
			return &StorageError{Op: "book new slot", Err: err}
		}

		appointment.TimeSlotUID = newSlot.TimeSlotUID
		appointment.Status = models.StatusRescheduled
		if in.Notes != "" {
			appointment.Notes = optional(in.Notes)
		}
		appointment.UpdatedAt = now
		if err := tx.SaveAppointment(appointment); err != nil {
			return &StorageError{Op: "update appointment", Err: err}
		}
		if err := s.recordNotification(tx, appointment, models.NotificationReschedule, now); err != nil {
			return err
		}

		rescheduled = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rescheduled, nil
}

// lockSlotPair locks the old and new slot rows in lexicographic order and
// returns the new slot as read under its lock.
func (s *Service) lockSlotPair(tx Tx, oldUID, newUID string) (*models.TimeSlot, error) {
	first, second := oldUID, newUID
	if second < first {
		first, second = second, first
	}

	var newSlot *models.TimeSlot
	for _, uid := range []string{first, second} {
		slot, err := tx.LockTimeSlot(uid)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrSlotNotFound
			}
			return nil, &StorageError{Op: "lock time slot", Err: err}
		}
		if slot.TimeSlotUID == newUID {
			newSlot = slot
		}
	}
	return newSlot, nil
}

// Cancel releases an appointment's slot back to the available pool. No lock
// is taken on the slot: only the owning appointment can release it, and a
// double release is idempotent at the slot level. Cancelling an appointment
// that is already cancelled is a no-op so a stale second cancel can never
// free a slot someone else has since booked.
func (s *Service) Cancel(ctx context.Context, in CancelInput) (*models.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var cancelled *models.Appointment
	err := s.store.Transact(ctx, func(tx Tx) error {
		appointment, err := tx.GetAppointment(in.AppointmentUID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrAppointmentNotFound
			}
			return &StorageError{Op: "fetch appointment", Err: err}
		}
		if !in.Requester.mayManage(appointment) {
			return ErrUnauthorized
		}
		if appointment.Status == models.StatusCancelled {
			cancelled = appointment
			return nil
		}

		now := s.now()
		appointment.Status = models.StatusCancelled
		appointment.UpdatedAt = now
		if err := tx.SaveAppointment(appointment); err != nil {
			return &StorageError{Op: "update appointment", Err: err}
		}
		if err := tx.SetTimeSlotStatus(appointment.TimeSlotUID, models.SlotAvailable, now); err != nil {
			return &StorageError{Op: "release slot", Err: err}
		}
		if err := s.recordNotification(tx, appointment, models.NotificationCancellation, now); err != nil {
			return err
		}

		cancelled = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *Service) recordNotification(tx Tx, a *models.Appointment, kind models.NotificationType, now time.Time) error {
	notification := &models.EmailNotification{
		NotificationUID:  s.newID("enot"),
		AppointmentUID:   a.AppointmentUID,
		NotificationType: kind,
		RecipientEmail:   a.CustomerEmail,
		SentStatus:       "sent",
		CreatedAt:        now,
	}
	if err := tx.CreateNotification(notification); err != nil {
		return &StorageError{Op: "record notification", Err: err}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
