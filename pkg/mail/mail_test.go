package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct{ sent []Message }

func (c *captured) Send(_ context.Context, m Message) error {
	c.sent = append(c.sent, m)
	return nil
}

func TestSendRequiresRecipient(t *testing.T) {
	c := &captured{}
	Use(c)
	t.Cleanup(func() { Use(LogMailer{}) })

	assert.ErrorIs(t, Send(context.Background(), Message{Subject: "hi"}), ErrNoRecipient)
	require.NoError(t, Send(context.Background(), Message{To: []string{"a@b.c"}, Subject: "hi"}))
	assert.Len(t, c.sent, 1)
}

func TestRawSinglePart(t *testing.T) {
	raw, err := Message{To: []string{"a@b.c", "d@e.f"}, Subject: "Order #1", Text: "thanks"}.Raw("Shop <shop@x.y>")
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, "From: Shop <shop@x.y>\r\n")
	assert.Contains(t, s, "To: a@b.c, d@e.f\r\n")
	assert.Contains(t, s, "Content-Type: text/plain")
	assert.True(t, strings.HasSuffix(s, "\r\n\r\nthanks"))
}

func TestRawAlternative(t *testing.T) {
	raw, err := Message{To: []string{"a@b.c"}, Subject: "s", Text: "plain", HTML: "<p>rich</p>"}.Raw("x@y.z")
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, "multipart/alternative")
	assert.Less(t, strings.Index(s, "plain"), strings.Index(s, "<p>rich</p>"))
	assert.Equal(t, 3, strings.Count(s, "--es-"))
}

func TestSMTPFromAddress(t *testing.T) {
	assert.Equal(t, "Shop <a@b.c>", NewSMTPMailer(SMTPConfig{From: "a@b.c", FromName: "Shop"}).from())
	assert.Equal(t, "a@b.c", NewSMTPMailer(SMTPConfig{From: "a@b.c"}).from())
}
