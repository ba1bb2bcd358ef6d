package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/slotbooking/booking-app/controllers"
	"github.com/slotbooking/booking-app/middleware"
)

// SetupTimeSlotRoutes configures public availability and admin slot management
func SetupTimeSlotRoutes(app *fiber.App) {
	app.Get("/api/time-slots", controllers.GetAvailableTimeSlots)

	admin := app.Group("/api/admin/time-slots", middleware.Protected(), middleware.RequireAdmin())
	admin.Get("/", controllers.AdminListTimeSlots)
	admin.Post("/", controllers.AdminCreateTimeSlot)
	admin.Put("/:time_slot_uid", controllers.AdminUpdateTimeSlot)
	admin.Delete("/:time_slot_uid", controllers.AdminDeleteTimeSlot)
}
