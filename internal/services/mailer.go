// internal/services/mailer.go
package services

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/mapstore/store-backend/internal/config"
)

// Mailer delivers one HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NewMailer picks the delivery backend named by EMAIL_PROVIDER. With no
// provider configured mail is only logged.
func NewMailer(cfg config.EmailConfig) Mailer {
	switch cfg.Provider {
	case "sendgrid":
		return &SendGridMailer{
			client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
			from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		}
	case "postmark":
		return &PostmarkMailer{
			client: postmark.NewClient(cfg.PostmarkServerToken, ""),
			from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
		}
	case "smtp":
		return &SMTPMailer{cfg: cfg}
	default:
		return LogMailer{}
	}
}

type SMTPMailer struct {
	cfg config.EmailConfig
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.FromName, m.cfg.FromEmail, to, subject, htmlBody,
	))

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), "", htmlBody)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", to, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send to %s: status %d: %s", to, resp.StatusCode, resp.Body)
	}
	return nil
}

type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

// Send ignores ctx cancellation once the request is in flight; the
// postmark client has no context-aware call.
func (m *PostmarkMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		HtmlBody: htmlBody,
		Tag:      "order",
	})
	if err != nil {
		return fmt.Errorf("postmark send to %s: %w", to, err)
	}
	if resp.ErrorCode != 0 {
		return fmt.Errorf("postmark send to %s: code %d: %s", to, resp.ErrorCode, resp.Message)
	}
	return nil
}

type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email delivery disabled, message not sent")
	return nil
}
