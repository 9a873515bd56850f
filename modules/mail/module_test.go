package mail_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear/modules/mail"
	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/job"
	"github.com/sitegear/sitegear/pkg/mailer"
)

type recordingSender struct {
	sent []*mailer.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, m *mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

type recordingQueue struct {
	names    []string
	payloads []any
}

func (q *recordingQueue) Enqueue(_ context.Context, name string, payload any, _ ...job.EnqueueOption) error {
	q.names = append(q.names, name)
	q.payloads = append(q.payloads, payload)
	return nil
}

func newModule(t *testing.T, sender mailer.Sender, opts ...mail.Option) (*mail.Module, string) {
	t.Helper()

	r, err := mailer.NewRenderer("")
	require.NoError(t, err)
	m := mail.New(mailer.New(sender, r, "site@example.com"), opts...)

	root := t.TempDir()
	cfg := viper.New()
	engine.SetDefaults(cfg)
	cfg.Set("site.root", root)
	eng := engine.New(cfg)
	require.NoError(t, eng.Register(m))
	require.NoError(t, eng.Start(context.Background()))
	return m, root
}

func sendCall(args map[string]any) form.Call {
	return form.Call{
		Values:    map[string]any{"name": "Ada", "message": "Hello **there**"},
		Arguments: args,
		FormKey:   "enquiry",
	}
}

func TestSend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    map[string]any
		wantTo  []string
		wantErr error
	}{
		{
			name:   "single recipient",
			args:   map[string]any{"to": "office@example.com", "subject": "From {{ .name }}", "body": "{{ .message }}"},
			wantTo: []string{"office@example.com"},
		},
		{
			name:   "comma separated",
			args:   map[string]any{"to": "a@example.com, Sales <b@example.com>", "subject": "Hi", "body": "x"},
			wantTo: []string{"a@example.com", "Sales <b@example.com>"},
		},
		{
			name:   "list",
			args:   map[string]any{"to": []any{"a@example.com", "b@example.com"}, "subject": "Hi", "body": "x"},
			wantTo: []string{"a@example.com", "b@example.com"},
		},
		{name: "no recipient", args: map[string]any{"subject": "Hi", "body": "x"}, wantErr: mail.ErrMissingArgument},
		{name: "no body", args: map[string]any{"to": "a@example.com", "subject": "Hi"}, wantErr: mail.ErrMissingArgument},
		{name: "no subject", args: map[string]any{"to": "a@example.com", "body": "x"}, wantErr: mailer.ErrNoSubject},
		{name: "missing template", args: map[string]any{"to": "a@example.com", "template": "nope.md"}, wantErr: mail.ErrTemplateNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := &recordingSender{}
			m, _ := newModule(t, sender)

			res, err := m.Processors()["send"](context.Background(), sendCall(tt.args))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, sender.sent)
				return
			}
			require.NoError(t, err)
			assert.Nil(t, res)
			require.Len(t, sender.sent, 1)
			assert.Equal(t, tt.wantTo, sender.sent[0].To)
			assert.Equal(t, "site@example.com", sender.sent[0].From)
			assert.Equal(t, "enquiry", sender.sent[0].Tags["form"])
		})
	}
}

func TestSend_Rendering(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	m, _ := newModule(t, sender)

	_, err := m.Processors()["send"](context.Background(), sendCall(map[string]any{
		"to":       "office@example.com",
		"subject":  "From {{ .name }}",
		"body":     "{{ .message }}",
		"reply-to": "ada@example.com",
	}))
	require.NoError(t, err)

	msg := sender.sent[0]
	assert.Equal(t, "From Ada", msg.Subject)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Contains(t, msg.HTML, "<strong>there</strong>")
}

func TestSend_Template(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	m, root := newModule(t, sender)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "mail"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "mail", "enquiry.md"),
		[]byte("---\nsubject: Enquiry from {{ .name }}\n---\n{{ .message }}\n"), 0o644))

	_, err := m.Processors()["send"](context.Background(), sendCall(map[string]any{
		"to":       "office@example.com",
		"template": "enquiry.md",
	}))
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Enquiry from Ada", sender.sent[0].Subject)
}

func TestSend_DeliveryFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("smtp down")
	m, _ := newModule(t, &recordingSender{err: boom})

	_, err := m.Processors()["send"](context.Background(), sendCall(map[string]any{
		"to": "office@example.com", "subject": "Hi", "body": "x",
	}))
	require.ErrorIs(t, err, mailer.ErrSendFailed)
	require.ErrorIs(t, err, boom)
}

func TestSend_Queued(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	queue := &recordingQueue{}
	m, _ := newModule(t, sender, mail.WithQueue(queue))

	_, err := m.Processors()["send"](context.Background(), sendCall(map[string]any{
		"to": "office@example.com", "subject": "Hi", "body": "x",
	}))
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
	require.Equal(t, []string{mail.TaskSend}, queue.names)

	msg, ok := queue.payloads[0].(*mailer.Message)
	require.True(t, ok)

	task := m.Task()
	assert.Equal(t, mail.TaskSend, task.Name())
	require.NoError(t, task.Handle(context.Background(), *msg))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Hi", sender.sent[0].Subject)
}
