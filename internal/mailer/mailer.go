package mailer

import (
	"fmt"

	"npl-dashboard/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer dispatches account notifications. Implementations are best effort
// for welcome mail; only the reset-code send surfaces its error to callers.
type Mailer interface {
	SendResetCode(email, code string) error
	SendWelcome(email, name, regionID string) error
}

type SMTPMailer struct {
	cfg  *config.Config
	dial func(m ...*gomail.Message) error
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	return &SMTPMailer{
		cfg:  cfg,
		dial: dialer.DialAndSend,
	}
}

func (m *SMTPMailer) SendResetCode(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTP.From)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Password Reset Code")
	msg.SetBody("text/plain", fmt.Sprintf("Your password reset code is: %s", code))

	return m.dial(msg)
}

func (m *SMTPMailer) SendWelcome(email, name, regionID string) error {
	body := fmt.Sprintf(`Dear %s,

Welcome to the #NoPlaceLeft project!

You have been assigned as the coordinator for region %s.

Your login credentials:
Username: %s
Password: %s

Please log in at %s and change your password on first login.

Thank you for serving with us!

#NoPlaceLeft Team
`, name, regionID, email, m.cfg.Seed.DefaultPassword, m.cfg.Seed.LoginURL)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTP.From)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Welcome to #NoPlaceLeft - Coordinator Assignment")
	msg.SetBody("text/plain", body)

	return m.dial(msg)
}
