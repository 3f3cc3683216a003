// File: hotelpms/services/mailer/mailer.go
package mailer

import (
	"errors"
	"fmt"

	"hotelpms/config"
	"hotelpms/models"

	"gopkg.in/gomail.v2"
)

// Mailer delivers one-time codes. The auth service depends on this interface
// so tests can swap in a double and so SMTP misconfiguration surfaces on
// first send rather than at startup.
type Mailer interface {
	SendOTP(to, code string, user *models.User, device models.Device) error
}

// SMTPMailer sends OTP mail over SMTP.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPMailer builds a mailer from the loaded configuration.
func NewSMTPMailer() *SMTPMailer {
	from := config.AppConfig.EmailFrom
	if from == "" {
		from = config.AppConfig.EmailUser
	}
	return &SMTPMailer{
		Host:     config.AppConfig.EmailHost,
		Port:     config.AppConfig.EmailPort,
		Username: config.AppConfig.EmailUser,
		Password: config.AppConfig.EmailPass,
		From:     from,
	}
}

// SendOTP composes and sends the verification email: the code, the requesting
// device's OS/browser/IP and the validity window.
func (m *SMTPMailer) SendOTP(to, code string, user *models.User, device models.Device) error {
	if m.Host == "" || m.Username == "" || m.Password == "" {
		return errors.New("email service not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("Hotel PMS Security <%s>", m.From))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Login OTP - Hotel PMS")
	msg.SetBody("text/html", fmt.Sprintf(`
		<h2>Login Verification</h2>
		<p>Hello <b>%s</b>,</p>
		<p>Your OTP is:</p>
		<h1>%s</h1>
		<p>This OTP is valid for 10 minutes.</p>
		<hr/>
		<p><b>Device:</b> %s / %s</p>
		<p><b>IP:</b> %s</p>`,
		user.Username, code, device.OS, device.Browser, device.IPAddress))

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}
