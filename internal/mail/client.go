// Package mail is the outbound message transport for the hosting
// workflow: one HTML email per candidate over SMTP. The engine performs no
// retry; a failed send is reported upward per recipient and the caller
// decides what to skip.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Message is one outbound email. To and Cc hold bare addresses; the body
// is a single HTML part.
type Message struct {
	Subject  string
	To       []string
	Cc       []string
	HTMLBody string
}

// Transport sends messages. Implementations must be safe for concurrent
// use; batch workers send from independent goroutines.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// TransportError is a failed delivery with a coarse category so callers
// can distinguish bad credentials from a flaky network.
type TransportError struct {
	Category   string // "auth", "network", "message", "unknown"
	Recipients []string
	Underlying error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send failed [%s] to %s: %v", e.Category, strings.Join(e.Recipients, ", "), e.Underlying)
}

func (e *TransportError) Unwrap() error {
	return e.Underlying
}

func categorize(err error) string {
	var netErr net.Error
	switch {
	case strings.Contains(err.Error(), "535") || strings.Contains(strings.ToLower(err.Error()), "auth"):
		return "auth"
	case errors.As(err, &netErr):
		return "network"
	default:
		return "unknown"
	}
}

// SMTPClient sends through a password-authenticated SMTP relay with
// STARTTLS (the smtp package negotiates it when the server offers).
type SMTPClient struct {
	host     string
	port     string
	username string
	password string

	mutex       sync.RWMutex
	totalSent   int64
	totalFailed int64
}

func NewSMTPClient(host, port, username, password string) *SMTPClient {
	return &SMTPClient{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

// Send delivers one message to every To and Cc recipient. No retry: the
// caller owns recovery policy.
func (c *SMTPClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	recipients := append(append([]string{}, msg.To...), msg.Cc...)
	if len(recipients) == 0 {
		return &TransportError{Category: "message", Underlying: fmt.Errorf("no recipients")}
	}

	auth := smtp.PlainAuth("", c.username, c.password, c.host)
	payload := c.encode(msg)
	addr := net.JoinHostPort(c.host, c.port)

	err := smtp.SendMail(addr, auth, c.username, recipients, payload)
	if err != nil {
		c.recordFailure()
		log.Error().
			Err(err).
			Strs("to", msg.To).
			Str("subject", msg.Subject).
			Msg("Email send failed")
		return &TransportError{Category: categorize(err), Recipients: recipients, Underlying: err}
	}

	c.recordSuccess()
	log.Debug().
		Strs("to", msg.To).
		Strs("cc", msg.Cc).
		Str("subject", msg.Subject).
		Msg("Email sent")
	return nil
}

// encode renders the RFC 822 message bytes with a single text/html part.
func (c *SMTPClient) encode(msg Message) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + c.username + "\r\n")
	sb.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	if len(msg.Cc) > 0 {
		sb.WriteString("Cc: " + strings.Join(msg.Cc, ", ") + "\r\n")
	}
	sb.WriteString("Subject: " + msg.Subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(msg.HTMLBody)
	return []byte(sb.String())
}

func (c *SMTPClient) recordSuccess() {
	c.mutex.Lock()
	c.totalSent++
	c.mutex.Unlock()
}

func (c *SMTPClient) recordFailure() {
	c.mutex.Lock()
	c.totalFailed++
	c.mutex.Unlock()
}

// Metrics returns how many sends have succeeded and failed over the
// client's lifetime.
func (c *SMTPClient) Metrics() (sent, failed int64) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.totalSent, c.totalFailed
}

// VerifyLogin opens and closes an authenticated connection without sending
// anything, so bad credentials surface before a batch starts.
func (c *SMTPClient) VerifyLogin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := net.JoinHostPort(c.host, c.port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return &TransportError{Category: "network", Underlying: err}
	}
	defer client.Close()
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.host}); err != nil {
			return &TransportError{Category: "network", Underlying: err}
		}
	}
	auth := smtp.PlainAuth("", c.username, c.password, c.host)
	if err := client.Auth(auth); err != nil {
		return &TransportError{Category: "auth", Underlying: err}
	}
	return client.Quit()
}
