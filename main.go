package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/slotbooking/booking-app/booking"
	"github.com/slotbooking/booking-app/controllers"
	"github.com/slotbooking/booking-app/cron"
	"github.com/slotbooking/booking-app/db"
	"github.com/slotbooking/booking-app/redis"
	"github.com/slotbooking/booking-app/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	if os.Getenv("AUTO_MIGRATE") == "true" {
		db.Migrate()
	}
	redis.InitRedis()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(logger.New())

	controllers.UseBooker(booking.NewService(booking.NewGormStore(db.DB)))

	routes.SetupAuthRoutes(app)
	routes.SetupTimeSlotRoutes(app)
	routes.SetupAppointmentRoutes(app)

	cron.StartCronJobs()

	// SPA assets; API routes are registered first, so the catch-all only sees
	// page loads.
	app.Static("/", "./public")
	app.Get("*", func(c *fiber.Ctx) error {
		return c.SendFile("./public/index.html")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Fatal(app.Listen(":" + port))
}
