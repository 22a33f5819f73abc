package mocks

import (
	"context"

	"github.com/nikhil240896/tms-api/internal/platform/mail"
)

// SendCall records the arguments of one mailer Send invocation.
type SendCall struct {
	To      string
	Subject string
	Body    string
}

// MockMailer implements mail.Mailer for testing.
type MockMailer struct {
	SendFn func(ctx context.Context, to, subject, body string) error

	// Call tracking
	SendCalls []SendCall
}

var _ mail.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.SendCalls = append(m.SendCalls, SendCall{To: to, Subject: subject, Body: body})
	if m.SendFn != nil {
		return m.SendFn(ctx, to, subject, body)
	}
	return nil
}
