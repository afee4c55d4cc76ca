// Package mail delivers transactional email (order confirmations) through a
// pluggable Mailer: SMTP, Amazon SES, or a log-only driver for development.
//
//	mail.Send(ctx, mail.Message{
//	    To:      []string{"ada@example.com"},
//	    Subject: "Order #7 confirmed",
//	    HTML:    body,
//	})
package mail

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/electrostore/config"
	"github.com/shashiranjanraj/electrostore/pkg/logger"
)

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("mail: message has no recipient")

// Message is a single email. HTML and Text may both be set, in which case the
// message is sent as multipart/alternative.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends a Message.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

var (
	mu      sync.RWMutex
	current Mailer = LogMailer{}
)

// Connect selects the mailer named by MAIL_DRIVER.
func Connect(ctx context.Context) error {
	switch config.MailDriver() {
	case "smtp":
		Use(NewSMTPMailer(SMTPFromConfig()))
	case "ses":
		m, err := NewSESMailer(ctx)
		if err != nil {
			return err
		}
		Use(m)
	default:
		Use(LogMailer{})
	}
	return nil
}

// Use swaps the active mailer. Tests install a recording mock.
func Use(m Mailer) {
	mu.Lock()
	current = m
	mu.Unlock()
}

// Send delivers m through the active mailer.
func Send(ctx context.Context, m Message) error {
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	mu.RLock()
	mailer := current
	mu.RUnlock()
	return mailer.Send(ctx, m)
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, m Message) error {
	logger.WithCtx(ctx).Info("mail: not sent (log driver)", "to", m.To, "subject", m.Subject)
	return nil
}
