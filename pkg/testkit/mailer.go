package testkit

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/electrostore/pkg/mail"
)

// MockMailer is a mail.Mailer that records every message. By default Send
// succeeds; override with m.On("Send", ...) before use to script failures.
type MockMailer struct {
	mock.Mock

	mu   sync.Mutex
	sent []mail.Message
}

var _ mail.Mailer = (*MockMailer)(nil)

// NewMockMailer returns a mailer whose Send always succeeds.
func NewMockMailer() *MockMailer {
	m := &MockMailer{}
	m.On("Send", mock.Anything, mock.Anything).Return(nil)
	return m
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return m.Called(ctx, msg).Error(0)
}

// Sent returns a copy of the messages received so far.
func (m *MockMailer) Sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

// Reset forgets recorded messages and calls; expectations stay.
func (m *MockMailer) Reset() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
	m.Calls = nil
}
