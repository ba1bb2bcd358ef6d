package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/slotbooking/booking-app/booking"
	"github.com/slotbooking/booking-app/db"
	"github.com/slotbooking/booking-app/models"
	"github.com/slotbooking/booking-app/utils"
)

var booker booking.Booker

// UseBooker wires the reservation service consumed by the appointment
// handlers. Called once from main, and from tests with a fake.
func UseBooker(b booking.Booker) {
	booker = b
}

func requesterFrom(c *fiber.Ctx) booking.Requester {
	userUID, _ := c.Locals("userUID").(string)
	role, _ := c.Locals("role").(string)
	return booking.Requester{UserUID: userUID, Role: role}
}

// bookingError maps the reservation error taxonomy onto HTTP statuses.
// Storage failures stay opaque to the caller.
func bookingError(c *fiber.Ctx, err error) error {
	var validationErr *booking.ValidationError
	var storageErr *booking.StorageError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: validationErr.Error(),
		})
	case errors.Is(err, booking.ErrSlotNotFound), errors.Is(err, booking.ErrAppointmentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, booking.ErrSlotUnavailable), errors.Is(err, booking.ErrAppointmentClosed):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, booking.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: err.Error(),
		})
	case errors.As(err, &storageErr):
		log.Printf("booking storage failure: %v", storageErr)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Internal Server Error",
		})
	default:
		log.Printf("booking failure: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Internal Server Error",
		})
	}
}

// BookAppointment books an available slot. Public: guests book without an
// account, logged-in users pass their user_uid to keep the appointment on
// their dashboard.
func BookAppointment(c *fiber.Ctx) error {
	type BookRequest struct {
		TimeSlotUID   string `json:"time_slot_uid"`
		CustomerName  string `json:"customer_name"`
		CustomerEmail string `json:"customer_email"`
		CustomerPhone string `json:"customer_phone"`
		Notes         string `json:"notes"`
		UserUID       string `json:"user_uid"`
	}

	req := new(BookRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	appointment, err := booker.Book(c.UserContext(), booking.BookInput{
		TimeSlotUID:   req.TimeSlotUID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		UserUID:       req.UserUID,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetMyAppointments lists the authenticated user's appointments.
func GetMyAppointments(c *fiber.Ctx) error {
	userUID, _ := c.Locals("userUID").(string)

	var appointments []models.Appointment
	if err := db.DB.Where("user_uid = ?", userUID).Order("created_at DESC").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// GetAppointment returns one appointment for its owner or an admin.
func GetAppointment(c *fiber.Ctx) error {
	uid := c.Params("appointment_uid")

	var appointment models.Appointment
	if err := db.DB.Where("appointment_uid = ?", uid).First(&appointment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
		})
	}

	requester := requesterFrom(c)
	if requester.Role != models.RoleAdmin && !appointment.OwnedBy(requester.UserUID) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Not authorized to view this appointment",
		})
	}
	return c.JSON(appointment)
}

// RescheduleAppointment moves an appointment to a new slot.
func RescheduleAppointment(c *fiber.Ctx) error {
	type RescheduleRequest struct {
		NewTimeSlotUID string `json:"new_time_slot_uid"`
		Notes          string `json:"notes"`
	}

	req := new(RescheduleRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	appointment, err := booker.Reschedule(c.UserContext(), booking.RescheduleInput{
		AppointmentUID: c.Params("appointment_uid"),
		NewTimeSlotUID: req.NewTimeSlotUID,
		Requester:      requesterFrom(c),
		Notes:          req.Notes,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(appointment)
}

// CancelAppointment cancels an appointment and frees its slot.
func CancelAppointment(c *fiber.Ctx) error {
	appointment, err := booker.Cancel(c.UserContext(), booking.CancelInput{
		AppointmentUID: c.Params("appointment_uid"),
		Requester:      requesterFrom(c),
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(appointment)
}

// AdminListAppointments lists appointments landing on the admin's slots,
// optionally filtered by status.
func AdminListAppointments(c *fiber.Ctx) error {
	adminUID, _ := c.Locals("userUID").(string)

	query := db.DB.
		Joins("JOIN time_slots ON time_slots.time_slot_uid = appointments.time_slot_uid").
		Where("time_slots.admin_uid = ?", adminUID)
	if status := c.Query("status"); status != "" {
		query = query.Where("appointments.status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}
