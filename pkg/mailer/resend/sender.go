// Package resend delivers mailer messages through the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/sitegear/sitegear/pkg/mailer"
)

// Config is read from the "mail" config section.
type Config struct {
	APIKey   string `mapstructure:"api-key"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from-name"`
}

// Sender implements mailer.Sender.
type Sender struct {
	client *resend.Client
	from   string
}

var _ mailer.Sender = (*Sender)(nil)

func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		from:   mailer.Recipient(cfg.FromName, cfg.From),
	}
}

func (s *Sender) Send(ctx context.Context, m *mailer.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := s.client.Emails.SendWithContext(ctx, s.request(m))
	if err != nil {
		return fmt.Errorf("resend: send: %w", err)
	}
	return nil
}

func (s *Sender) request(m *mailer.Message) *resend.SendEmailRequest {
	from := m.From
	if from == "" {
		from = s.from
	}
	req := &resend.SendEmailRequest{
		From:    from,
		To:      m.To,
		Subject: m.Subject,
		Html:    m.HTML,
		Text:    m.Text,
		ReplyTo: m.ReplyTo,
		Cc:      m.CC,
		Bcc:     m.BCC,
		Headers: m.Headers,
	}
	for name, value := range m.Tags {
		req.Tags = append(req.Tags, resend.Tag{Name: name, Value: value})
	}
	return req
}
