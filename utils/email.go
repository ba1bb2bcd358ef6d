package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendEmail delivers a message through SMTP when SMTP_HOST is configured.
// Without it, delivery is mocked: the message is logged and the notification
// audit row written by the caller is the record.
func SendEmail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Printf("mock email to %s: %s", to, subject)
		return nil
	}

	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("EMAIL_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, os.Getenv("EMAIL_USER"), os.Getenv("EMAIL_PASS"))

	return d.DialAndSend(m)
}
