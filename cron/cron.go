package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/slotbooking/booking-app/db"
	"github.com/slotbooking/booking-app/models"
	"github.com/slotbooking/booking-app/utils"
)

// StartCronJobs initializes and starts the cron scheduler for appointment reminders
func StartCronJobs() {
	c := cron.New()
	// Hourly; reminders go out the day before the slot.
	_, err := c.AddFunc("0 * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// sendAppointmentReminders finds active appointments on tomorrow's slots and
// records a reminder for each, at most once per appointment.
func sendAppointmentReminders() {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var appointments []models.Appointment
	err := db.DB.
		Joins("JOIN time_slots ON time_slots.time_slot_uid = appointments.time_slot_uid").
		Where("time_slots.slot_date = ? AND appointments.status IN ?", tomorrow,
			[]models.AppointmentStatus{models.StatusBooked, models.StatusRescheduled}).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		var sent int64
		db.DB.Model(&models.EmailNotification{}).
			Where("appointment_uid = ? AND notification_type = ?",
				appointment.AppointmentUID, models.NotificationReminder).
			Count(&sent)
		if sent > 0 {
			continue
		}

		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %s: %v", appointment.AppointmentUID, err)
			continue
		}

		notification := models.EmailNotification{
			NotificationUID:  utils.GenerateID("enot"),
			AppointmentUID:   appointment.AppointmentUID,
			NotificationType: models.NotificationReminder,
			RecipientEmail:   appointment.CustomerEmail,
			SentStatus:       "sent",
			CreatedAt:        time.Now(),
		}
		if err := db.DB.Create(&notification).Error; err != nil {
			log.Printf("Failed to record reminder for appointment %s: %v", appointment.AppointmentUID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %s to %s", appointment.AppointmentUID, appointment.CustomerEmail)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	var slot models.TimeSlot
	if err := db.DB.Where("time_slot_uid = ?", appointment.TimeSlotUID).First(&slot).Error; err != nil {
		return err
	}

	subject := fmt.Sprintf("Reminder: Upcoming Appointment %s", appointment.BookingReference)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your appointment tomorrow.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Booking Reference:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s - %s</li>
		</ul>
		<p>If you need to reschedule or cancel, please do so as soon as possible.</p>
		<p>Best regards,</p>
		<p>Your Appointment Team</p>
	`, appointment.CustomerName, appointment.BookingReference,
		slot.SlotDate, slot.StartTime, slot.EndTime)

	return utils.SendEmail(appointment.CustomerEmail, subject, body)
}
