// Package mailer sends transactional email over SMTP. Dispatch is
// best-effort by contract: callers log failures and carry on, a lost
// notification never fails the operation that triggered it.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned when SMTP credentials are missing. Callers
// treat it like any other send failure: warn and continue.
var ErrNotConfigured = errors.New("smtp credentials are not configured")

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string // from address, e.g. noreply@proplanner.app
	FromName string // display name, e.g. ProPlanner
}

// Email is one outbound message with alternative text and HTML bodies.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer sends email through a single SMTP endpoint.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

// New creates a Mailer. A Mailer with missing credentials is still valid;
// Send just returns ErrNotConfigured.
func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: logger}
}

// Enabled reports whether SMTP credentials are present.
func (m *Mailer) Enabled() bool {
	return m.cfg.User != "" && m.cfg.Pass != ""
}

// Send delivers one message. The context bounds the whole SMTP exchange.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if !m.Enabled() {
		return ErrNotConfigured
	}
	if e.To == "" {
		return fmt.Errorf("email has no recipient")
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(e.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(m.buildMessage(e)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	m.log.Info("email sent",
		zap.String("to", e.To),
		zap.String("subject", e.Subject))
	return c.Quit()
}

// buildMessage assembles a multipart/alternative MIME message so clients
// without HTML rendering still get the text body.
func (m *Mailer) buildMessage(e Email) []byte {
	const boundary = "proplanner-alt"

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", m.cfg.FromName), m.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", e.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(e.TextBody)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	buf.WriteString(e.HTMLBody)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}
