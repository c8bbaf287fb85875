package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Config holds the SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends transactional mail over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTPMailer. An empty username configures an
// unauthenticated dialer for local relays.
func NewSMTPMailer(cfg Config, logger *zap.Logger) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPMailer{
		dialer: dialer,
		from:   cfg.From,
		logger: logger.Named("SMTPMailer"),
	}
}

// Send delivers a plain-text message to a single recipient.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send mail", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("failed to send mail: %w", err)
	}
	m.logger.Debug("Mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
