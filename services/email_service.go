// services/email_service.go
package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Mailer is the outbound-email seam. Delivery is best-effort everywhere it
// is used: failures are logged and never fail the enclosing request.
type Mailer interface {
	SendPasswordResetCode(to, code string) error
	SendPasswordResetConfirmation(to string) error
}

// NewMailer returns an SMTP mailer when SMTP_HOST is configured, otherwise a
// log-only mailer so the reset flow stays usable in development.
func NewMailer() Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, password reset emails will only be logged")
		return &logMailer{}
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &smtpMailer{
		addr:     host + ":" + port,
		host:     host,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("SMTP_FROM"),
	}
}

type smtpMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}

func (m *smtpMailer) SendPasswordResetCode(to, code string) error {
	body := "Your password reset verification code is: " + code +
		"\n\nThis code will expire in 15 minutes. " +
		"Please enter this code in the app to continue with your password reset process."
	return m.send(to, "Your Password Reset Verification Code", body)
}

func (m *smtpMailer) SendPasswordResetConfirmation(to string) error {
	body := "Your password has been reset successfully.\n\n" +
		"If you did not request a password reset, please contact support immediately."
	return m.send(to, "Your Password Was Reset", body)
}

// logMailer is the development fallback. It never logs the code itself in
// the confirmation path, only the recipient.
type logMailer struct{}

func (m *logMailer) SendPasswordResetCode(to, code string) error {
	log.Printf("[MAIL] password reset code for %s: %s", to, code)
	return nil
}

func (m *logMailer) SendPasswordResetConfirmation(to string) error {
	log.Printf("[MAIL] password reset confirmation for %s", to)
	return nil
}
