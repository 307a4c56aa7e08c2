package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer sends transactional mail over SMTP. Send fails when From
// is unset so misconfiguration surfaces at the first send, not silently.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	if m.cfg.From == "" {
		return fmt.Errorf("mail: sender address not configured")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) SendVerification(to, username, code string) error {
	return m.send(to, "Verify your email", verificationBody(username, code))
}

func (m *SMTPMailer) SendWelcome(to, username string) error {
	return m.send(to, "Welcome!", welcomeBody(username))
}

func (m *SMTPMailer) SendPasswordReset(to, username, resetURL string) error {
	return m.send(to, "Reset your password", resetBody(username, resetURL))
}

func (m *SMTPMailer) SendPasswordResetSuccess(to, username string) error {
	return m.send(to, "Your password was changed", resetSuccessBody(username))
}
