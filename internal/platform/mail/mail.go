// Package mail implements the delivery channel over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/phrazzld/taskmill/internal/dispatch"
	"github.com/phrazzld/taskmill/internal/platform/logger"
)

// Config holds the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPChannel delivers messages through an SMTP relay. It satisfies
// dispatch.DeliveryChannel. Each delivery opens a fresh connection;
// notification volume is low enough that pooling is not worth the
// complexity.
type SMTPChannel struct {
	cfg Config
}

// Verify SMTPChannel implements dispatch.DeliveryChannel
var _ dispatch.DeliveryChannel = (*SMTPChannel)(nil)

// NewSMTPChannel creates an SMTPChannel.
func NewSMTPChannel(cfg Config) *SMTPChannel {
	return &SMTPChannel{cfg: cfg}
}

// Deliver implements dispatch.DeliveryChannel. The context deadline bounds
// the whole SMTP conversation via the connection deadline.
func (c *SMTPChannel) Deliver(ctx context.Context, msg dispatch.Message) error {
	log := logger.FromContext(ctx)

	addr := net.JoinHostPort(c.cfg.Host, fmt.Sprintf("%d", c.cfg.Port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("failed to set connection deadline: %w", err)
		}
	}

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if c.cfg.Username != "" {
		auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(c.cfg.From); err != nil {
		return fmt.Errorf("SMTP MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("SMTP RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA failed: %w", err)
	}
	if _, err := w.Write(buildMessage(c.cfg.From, msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message body: %w", err)
	}

	if err := client.Quit(); err != nil {
		// The message was already accepted; a failed QUIT is not a delivery failure.
		log.Debug("SMTP QUIT failed after accepted message", "error", err)
	}

	log.Debug("message delivered",
		"to", msg.To,
		"subject", msg.Subject)
	return nil
}

// buildMessage renders the RFC 5322 envelope with CRLF line endings.
func buildMessage(from string, msg dispatch.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
