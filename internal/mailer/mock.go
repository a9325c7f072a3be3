package mailer

import (
	"context"
	"sync"
)

// SentMail records a single delivery made through MockMailer.
type SentMail struct {
	To      string
	Kind    string
	Code    string
	Purpose string
}

// MockMailer captures outgoing mail for tests.
type MockMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) record(s SentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, s)
	return nil
}

func (m *MockMailer) SendOtp(ctx context.Context, to, code, purpose string, override SMTPOverride) error {
	return m.record(SentMail{To: to, Kind: "otp", Code: code, Purpose: purpose})
}

func (m *MockMailer) SendWelcome(ctx context.Context, to, name string, override SMTPOverride) error {
	return m.record(SentMail{To: to, Kind: "welcome"})
}

func (m *MockMailer) SendStaffCredentials(ctx context.Context, to, role, password string, override SMTPOverride) error {
	return m.record(SentMail{To: to, Kind: "staff_credentials", Code: password})
}
