package models

import (
	"testing"
)

func TestSlotTransitions(t *testing.T) {
	cases := []struct {
		from    AvailabilityStatus
		to      AvailabilityStatus
		allowed bool
	}{
		{SlotAvailable, SlotLocked, true},
		{SlotAvailable, SlotBooked, true},
		{SlotLocked, SlotBooked, true},
		{SlotBooked, SlotAvailable, true},
		{SlotBooked, SlotLocked, false},
		{SlotLocked, SlotAvailable, false},
		{SlotAvailable, SlotAvailable, false},
		{SlotBooked, SlotBooked, false},
	}
	for _, tc := range cases {
		slot := TimeSlot{AvailabilityStatus: tc.from}
		if got := slot.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: CanTransition = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestAppointmentTransitions(t *testing.T) {
	cases := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusBooked, StatusRescheduled, true},
		{StatusBooked, StatusCancelled, true},
		{StatusRescheduled, StatusRescheduled, true},
		{StatusRescheduled, StatusCancelled, true},
		{StatusCancelled, StatusRescheduled, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusBooked, StatusBooked, false},
	}
	for _, tc := range cases {
		appointment := Appointment{Status: tc.from}
		if got := appointment.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: CanTransition = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestOwnedBy(t *testing.T) {
	owner := "user_1"
	owned := Appointment{UserUID: &owner}
	if !owned.OwnedBy("user_1") {
		t.Error("owner not recognized")
	}
	if owned.OwnedBy("user_2") {
		t.Error("stranger recognized as owner")
	}

	guest := Appointment{}
	if guest.OwnedBy("user_1") {
		t.Error("guest appointment has no owner")
	}
}
