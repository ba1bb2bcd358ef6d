package db

import (
	"fmt"
	"log"

	"github.com/slotbooking/booking-app/models"
)

func Migrate() {
	if DB == nil {
		Init()
	}

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.TimeSlot{},
		&models.Appointment{},
		&models.EmailNotification{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
