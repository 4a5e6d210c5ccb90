package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/monetapp/moneta/internal/config"
)

// Mailer sends outbound notification emails. Sending is best-effort: callers
// fire and forget, logging failures on their side.
type Mailer interface {
	Send(to, subject, body string) error
}

type SmtpMailer struct {
	cfg config.Smtp
}

func NewSmtpMailer(cfg config.Smtp) *SmtpMailer {
	return &SmtpMailer{cfg: cfg}
}

func (m *SmtpMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("could not send email: %w", err)
	}
	return nil
}
