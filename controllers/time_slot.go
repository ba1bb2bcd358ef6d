package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/slotbooking/booking-app/db"
	"github.com/slotbooking/booking-app/models"
	"github.com/slotbooking/booking-app/utils"
)

// GetAvailableTimeSlots lists available slots for a date. Public: this is
// what the booking page renders.
func GetAvailableTimeSlots(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Date parameter is required (YYYY-MM-DD)",
		})
	}

	var slots []models.TimeSlot
	if err := db.DB.
		Where("slot_date = ? AND availability_status = ?", date, models.SlotAvailable).
		Order("start_time").
		Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch time slots",
			Error:   err.Error(),
		})
	}
	return c.JSON(slots)
}

// AdminListTimeSlots returns the admin's own slots, optionally filtered by date.
func AdminListTimeSlots(c *fiber.Ctx) error {
	adminUID, _ := c.Locals("userUID").(string)

	query := db.DB.Where("admin_uid = ?", adminUID)
	if date := c.Query("date"); date != "" {
		query = query.Where("slot_date = ?", date)
	}

	var slots []models.TimeSlot
	if err := query.Order("slot_date, start_time").Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch time slots",
			Error:   err.Error(),
		})
	}
	return c.JSON(slots)
}

// AdminCreateTimeSlot publishes a new available slot owned by the admin.
func AdminCreateTimeSlot(c *fiber.Ctx) error {
	type CreateInput struct {
		SlotDate  string `json:"slot_date"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}

	input := new(CreateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.SlotDate == "" || input.StartTime == "" || input.EndTime == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required time slot fields",
		})
	}
	if _, err := time.Parse("2006-01-02", input.SlotDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "slot_date must be YYYY-MM-DD",
		})
	}

	adminUID, _ := c.Locals("userUID").(string)
	now := time.Now()
	slot := models.TimeSlot{
		TimeSlotUID:        utils.GenerateID("ts"),
		AdminUID:           adminUID,
		SlotDate:           input.SlotDate,
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
		AvailabilityStatus: models.SlotAvailable,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := db.DB.Create(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create time slot",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

// AdminUpdateTimeSlot updates allowed fields of an admin's own slot. A status
// change must follow the slot state machine.
func AdminUpdateTimeSlot(c *fiber.Ctx) error {
	type UpdateInput struct {
		SlotDate           string                    `json:"slot_date"`
		StartTime          string                    `json:"start_time"`
		EndTime            string                    `json:"end_time"`
		AvailabilityStatus models.AvailabilityStatus `json:"availability_status"`
	}

	input := new(UpdateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	uid := c.Params("time_slot_uid")
	adminUID, _ := c.Locals("userUID").(string)

	var slot models.TimeSlot
	if err := db.DB.Where("time_slot_uid = ? AND admin_uid = ?", uid, adminUID).First(&slot).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Time slot not found",
		})
	}

	if input.SlotDate != "" {
		slot.SlotDate = input.SlotDate
	}
	if input.StartTime != "" {
		slot.StartTime = input.StartTime
	}
	if input.EndTime != "" {
		slot.EndTime = input.EndTime
	}
	if input.AvailabilityStatus != "" && input.AvailabilityStatus != slot.AvailabilityStatus {
		if !slot.CanTransition(input.AvailabilityStatus) {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Message: "Invalid availability status transition",
			})
		}
		slot.AvailabilityStatus = input.AvailabilityStatus
	}
	slot.UpdatedAt = time.Now()

	if err := db.DB.Save(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update time slot",
			Error:   err.Error(),
		})
	}
	return c.JSON(slot)
}

// AdminDeleteTimeSlot removes a slot. Slots can only be deleted while
// available; a booked or locked slot is still referenced by an appointment.
func AdminDeleteTimeSlot(c *fiber.Ctx) error {
	uid := c.Params("time_slot_uid")
	adminUID, _ := c.Locals("userUID").(string)

	var slot models.TimeSlot
	if err := db.DB.Where("time_slot_uid = ? AND admin_uid = ?", uid, adminUID).First(&slot).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Time slot not found",
		})
	}
	if !slot.IsAvailable() {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Time slot cannot be deleted while booked",
		})
	}

	if err := db.DB.Delete(&slot).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete time slot",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Time slot deleted successfully"})
}
