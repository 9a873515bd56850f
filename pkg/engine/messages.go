package engine

import (
	"github.com/spf13/cast"

	"github.com/sitegear/sitegear/pkg/session"
)

// PageMessagesKey is the session key holding queued page messages.
const PageMessagesKey = "engine.page-messages"

// Message kinds.
const (
	MessageInfo    = "info"
	MessageSuccess = "success"
	MessageWarning = "warning"
	MessageError   = "error"
)

// Message is a notice shown once on the next rendered page.
type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// AddPageMessage queues a message in the visitor's session.
func AddPageMessage(s session.Accessor, kind, text string) {
	msgs := peekPageMessages(s)
	msgs = append(msgs, Message{Kind: kind, Text: text})

	// Stored as plain maps so in-memory and remote stores read back the same.
	raw := make([]any, 0, len(msgs))
	for _, m := range msgs {
		raw = append(raw, map[string]any{"kind": m.Kind, "text": m.Text})
	}
	s.SetValue(PageMessagesKey, raw)
}

// PageMessages returns the queued messages and clears them.
func PageMessages(s session.Accessor) []Message {
	msgs := peekPageMessages(s)
	s.DeleteValue(PageMessagesKey)
	return msgs
}

func peekPageMessages(s session.Accessor) []Message {
	v, ok := s.GetValue(PageMessagesKey)
	if !ok {
		return nil
	}
	var out []Message
	for _, item := range cast.ToSlice(v) {
		m := cast.ToStringMapString(item)
		out = append(out, Message{Kind: m["kind"], Text: m["text"]})
	}
	return out
}
