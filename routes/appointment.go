package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/slotbooking/booking-app/controllers"
	"github.com/slotbooking/booking-app/middleware"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/api/appointments")

	// Booking is public (guests book without an account), rate limited per IP.
	appointment.Post("/", middleware.RateLimit(30, time.Minute, "book"), controllers.BookAppointment)

	appointment.Get("/", middleware.Protected(), controllers.GetMyAppointments)
	appointment.Get("/:appointment_uid", middleware.Protected(), controllers.GetAppointment)
	appointment.Put("/:appointment_uid/reschedule", middleware.Protected(), controllers.RescheduleAppointment)
	appointment.Delete("/:appointment_uid", middleware.Protected(), controllers.CancelAppointment)

	app.Get("/api/admin/appointments", middleware.Protected(), middleware.RequireAdmin(), controllers.AdminListAppointments)
}
