package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Message is a rendered email ready for delivery.
type Message struct {
	Headers map[string]string `json:"headers,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	Text    string            `json:"text,omitempty"`
	From    string            `json:"from,omitempty"`
	ReplyTo string            `json:"reply_to,omitempty"`
	To      []string          `json:"to"`
	CC      []string          `json:"cc,omitempty"`
	BCC     []string          `json:"bcc,omitempty"`
}

// Validate checks the fields every provider requires.
func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipient
	}
	if strings.TrimSpace(m.Subject) == "" {
		return ErrNoSubject
	}
	if m.HTML == "" && m.Text == "" {
		return ErrNoContent
	}
	return nil
}

// Recipient formats "Name <email>", or the bare address without a name.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Sender delivers messages through a provider.
type Sender interface {
	Send(ctx context.Context, m *Message) error
}

// LogSender logs messages instead of delivering them.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, m *Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.Logger.InfoContext(ctx, "mail not sent, no provider configured",
		slog.Any("to", m.To),
		slog.String("subject", m.Subject),
		slog.String("reply_to", m.ReplyTo),
	)
	return nil
}
