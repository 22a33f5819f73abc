// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/nikhil240896/tms-api/internal/config"
)

// Mailer delivers a single plain-text message to one recipient.
type Mailer interface {
	// Send delivers a message. It blocks until the transport accepts or
	// rejects the message; callers decide how a failure affects their own
	// success semantics.
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer implements Mailer over authenticated SMTP.
type SMTPMailer struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

// NewSMTPMailer creates a Mailer using the given SMTP configuration.
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "mailer")),
	}
}

// Ensure SMTPMailer implements Mailer.
var _ Mailer = (*SMTPMailer)(nil)

// Send implements Mailer.Send.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail),
		"To":           to,
		"Subject":      subject,
		"Content-Type": "text/plain; charset=UTF-8",
	}

	var message strings.Builder
	for key, value := range headers {
		fmt.Fprintf(&message, "%s: %s\r\n", key, value)
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	serverAddr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	err := smtp.SendMail(serverAddr, auth, m.cfg.FromEmail, []string{to}, []byte(message.String()))
	if err != nil {
		m.logger.Error("failed to send email",
			slog.String("error", err.Error()),
			slog.String("to", to),
			slog.String("subject", subject))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("email sent",
		slog.String("to", to),
		slog.String("subject", subject))
	return nil
}

// NoopMailer is a Mailer that silently accepts every message. It is used
// when no SMTP host is configured and in tests.
type NoopMailer struct{}

// Send implements Mailer.Send as a no-op.
func (NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	return nil
}
