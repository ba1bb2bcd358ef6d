package models

import (
	"time"
)

type AvailabilityStatus string

const (
	SlotAvailable AvailabilityStatus = "available"
	SlotLocked    AvailabilityStatus = "locked"
	SlotBooked    AvailabilityStatus = "booked"
)

// TimeSlot is a bookable date/time interval published by an admin. A slot is
// held by at most one active appointment at a time; the transient "locked"
// status is written while a booking transaction is in flight.
type TimeSlot struct {
	TimeSlotUID        string             `json:"time_slot_uid" gorm:"primaryKey"`
	AdminUID           string             `json:"admin_uid" gorm:"index"`
	SlotDate           string             `json:"slot_date" gorm:"index"` // YYYY-MM-DD
	StartTime          string             `json:"start_time"`             // HH:MM
	EndTime            string             `json:"end_time"`               // HH:MM
	AvailabilityStatus AvailabilityStatus `json:"availability_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

var slotTransitions = map[AvailabilityStatus][]AvailabilityStatus{
	SlotAvailable: {SlotLocked, SlotBooked},
	SlotLocked:    {SlotBooked},
	SlotBooked:    {SlotAvailable},
}

// CanTransition reports whether the slot may move to the given status.
// Notably booked never goes back to locked directly.
func (s *TimeSlot) CanTransition(next AvailabilityStatus) bool {
	for _, allowed := range slotTransitions[s.AvailabilityStatus] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s *TimeSlot) IsAvailable() bool {
	return s.AvailabilityStatus == SlotAvailable
}
