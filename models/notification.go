package models

import (
	"time"
)

type NotificationType string

const (
	NotificationBookingConfirmation NotificationType = "booking_confirmation"
	NotificationReschedule          NotificationType = "reschedule_notification"
	NotificationCancellation        NotificationType = "cancellation_notification"
	NotificationReminder            NotificationType = "reminder_notification"
)

// EmailNotification is an append-only audit record of outbound mail. Delivery
// itself is mocked; the row is the record, so sent_status is always "sent".
type EmailNotification struct {
	NotificationUID  string           `json:"notification_uid" gorm:"primaryKey"`
	AppointmentUID   string           `json:"appointment_uid" gorm:"index"`
	NotificationType NotificationType `json:"notification_type"`
	RecipientEmail   string           `json:"recipient_email"`
	SentStatus       string           `json:"sent_status"`
	CreatedAt        time.Time        `json:"created_at"`
}
