package mail

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/shashiranjanraj/electrostore/config"
)

// SMTPConfig holds connection credentials.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// SMTPFromConfig reads MAIL_HOST, MAIL_PORT, MAIL_USERNAME, MAIL_PASSWORD,
// MAIL_FROM and MAIL_FROM_NAME.
func SMTPFromConfig() SMTPConfig {
	return SMTPConfig{
		Host:     config.Get("MAIL_HOST", "localhost"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.MailFrom(),
		FromName: config.MailFromName(),
	}
}

// SMTPMailer sends through an SMTP relay. Port 465 uses implicit TLS; other
// ports rely on STARTTLS negotiated by net/smtp.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer { return &SMTPMailer{cfg: cfg} }

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := m.Raw(s.from())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	if s.cfg.Port == "465" {
		return s.sendTLS(ctx, addr, auth, m.To, raw)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, m.To, raw); err != nil {
		return fmt.Errorf("mail/smtp: send: %w", err)
	}
	return nil
}

func (s *SMTPMailer) from() string {
	if s.cfg.FromName == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
}

func (s *SMTPMailer) sendTLS(ctx context.Context, addr string, auth smtp.Auth, to []string, raw []byte) error {
	d := tls.Dialer{Config: &tls.Config{ServerName: s.cfg.Host}}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail/smtp: TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Raw renders the message as an RFC 5322 document.
func (m Message) Raw(from string) ([]byte, error) {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.To, ", ") + "\r\n")
	b.WriteString("Subject: " + m.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case m.HTML != "" && m.Text != "":
		boundary, err := newBoundary()
		if err != nil {
			return nil, err
		}
		b.WriteString(`Content-Type: multipart/alternative; boundary="` + boundary + "\"\r\n\r\n")
		part := func(ct, body string) {
			b.WriteString("--" + boundary + "\r\n")
			b.WriteString("Content-Type: " + ct + "; charset=\"UTF-8\"\r\n\r\n")
			b.WriteString(body + "\r\n")
		}
		part("text/plain", m.Text)
		part("text/html", m.HTML)
		b.WriteString("--" + boundary + "--\r\n")
	case m.HTML != "":
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(m.HTML)
	default:
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(m.Text)
	}
	return []byte(b.String()), nil
}

func newBoundary() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "es-" + hex.EncodeToString(buf), nil
}
