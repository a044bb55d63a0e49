// Package notify holds the outbound email collaborator. Delivery
// mechanics stay behind the Notifier interface so flows only depend on
// send-and-report semantics.
package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/spec-kit/identity-service/internal/config"
)

// Notifier delivers email to a recipient.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer builds the mailer.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendEmail delivers a single plain-text message. The send is
// synchronous; callers decide how a failure surfaces.
func (m *SMTPMailer) SendEmail(_ context.Context, to, subject, body string) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
