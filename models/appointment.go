package models

import (
	"time"
)

type AppointmentStatus string

const (
	StatusBooked      AppointmentStatus = "booked"
	StatusRescheduled AppointmentStatus = "rescheduled"
	StatusCancelled   AppointmentStatus = "cancelled"
)

// Appointment is a customer's claim on exactly one time slot. Appointments are
// never deleted; cancellation is recorded through the status field. UserUID is
// nil for guest bookings.
type Appointment struct {
	AppointmentUID   string            `json:"appointment_uid" gorm:"primaryKey"`
	UserUID          *string           `json:"user_uid" gorm:"index"`
	TimeSlotUID      string            `json:"time_slot_uid" gorm:"index"`
	CustomerName     string            `json:"customer_name"`
	CustomerEmail    string            `json:"customer_email"`
	CustomerPhone    string            `json:"customer_phone"`
	Notes            *string           `json:"notes"`
	BookingReference string            `json:"booking_reference" gorm:"uniqueIndex"`
	Status           AppointmentStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// CanTransition reports whether the appointment may move to the given status.
// Rescheduled appointments can be rescheduled again; cancelled is terminal.
func (a *Appointment) CanTransition(next AppointmentStatus) bool {
	switch a.Status {
	case StatusBooked, StatusRescheduled:
		return next == StatusRescheduled || next == StatusCancelled
	default:
		return false
	}
}

// OwnedBy reports whether the appointment belongs to the given user. Guest
// appointments have no owner.
func (a *Appointment) OwnedBy(userUID string) bool {
	return a.UserUID != nil && *a.UserUID == userUID
}
