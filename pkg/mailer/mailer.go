package mailer

import (
	"context"
	"errors"
)

// Params describes a message to render and send.
type Params struct {
	Data    any
	Subject string
	Body    string
	From    string
	ReplyTo string
	To      []string
	Tags    map[string]string
}

// Mailer renders Params and sends the result.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	from     string
}

// New creates a mailer sending from the default from address.
func New(sender Sender, renderer *Renderer, from string) *Mailer {
	return &Mailer{sender: sender, renderer: renderer, from: from}
}

// Compose renders p without sending it.
func (m *Mailer) Compose(p Params) (*Message, error) {
	if len(p.To) == 0 {
		return nil, ErrNoRecipient
	}
	out, err := m.renderer.Render(p.Body, p.Subject, p.Data)
	if err != nil {
		return nil, err
	}
	from := p.From
	if from == "" {
		from = m.from
	}
	msg := &Message{
		To:      p.To,
		From:    from,
		ReplyTo: p.ReplyTo,
		Subject: out.Subject,
		HTML:    out.HTML,
		Text:    out.Text,
		Tags:    p.Tags,
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}

// Deliver sends an already rendered message.
func (m *Mailer) Deliver(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

// Send composes and delivers p.
func (m *Mailer) Send(ctx context.Context, p Params) error {
	msg, err := m.Compose(p)
	if err != nil {
		return err
	}
	return m.Deliver(ctx, msg)
}
