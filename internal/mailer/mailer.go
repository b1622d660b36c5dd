// Package mailer sends mail through the configured SMTP relay.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/fahrschule-lenz/backend/config"
)

// Message is one outgoing email. Text is the plain-text body; HTML, when
// set, is attached as the alternative part.
type Message struct {
	From     string
	FromName string
	To       string
	Subject  string
	Text     string
	HTML     string
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use; handlers issue independent sends in parallel.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPMailer sends mail via an SMTP relay using gomail. Port 465 connects
// with implicit TLS, any other port negotiates STARTTLS when the server
// offers it (gomail's default).
type SMTPMailer struct {
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer from the SMTP config.
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

// Send dials the relay and delivers msg. The SMTP exchange has no
// cancellation point; ctx is accepted for interface symmetry only.
func (m *SMTPMailer) Send(_ context.Context, msg *Message) error {
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", msg.From, msg.FromName)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	m.logger.Debug("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
