package mailer_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantMeta map[string]any
		wantBody string
		wantErr  error
	}{
		{
			name:     "no frontmatter",
			content:  "Hello {{ .name }}",
			wantMeta: map[string]any{},
			wantBody: "Hello {{ .name }}",
		},
		{
			name:     "frontmatter",
			content:  "---\nsubject: Enquiry\n---\nBody\n",
			wantMeta: map[string]any{"subject": "Enquiry"},
			wantBody: "Body\n",
		},
		{
			name:     "empty frontmatter",
			content:  "---\n---\nBody",
			wantMeta: map[string]any{},
			wantBody: "Body",
		},
		{
			name:    "unclosed",
			content: "---\nsubject: x\nBody",
			wantErr: mailer.ErrInvalidFrontmatter,
		},
		{
			name:    "bad yaml",
			content: "---\n: : :\n---\nBody",
			wantErr: mailer.ErrInvalidFrontmatter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tpl, err := mailer.ParseTemplate([]byte(tt.content))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMeta, tpl.Metadata)
			assert.Equal(t, tt.wantBody, tpl.Body)
		})
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r, err := mailer.NewRenderer("")
	require.NoError(t, err)

	out, err := r.Render("---\nsubject: Enquiry from {{ .name }}\n---\n**{{ .name }}** wrote:\n\n{{ .message }}\n",
		"", map[string]any{"name": "Ada", "message": "<script>x</script>"})
	require.NoError(t, err)

	assert.Equal(t, "Enquiry from Ada", out.Subject)
	assert.Contains(t, out.HTML, "<strong>Ada</strong> wrote:")
	assert.NotContains(t, out.HTML, "<script>")
	assert.Contains(t, out.Text, "**Ada** wrote:")

	t.Run("explicit subject wins", func(t *testing.T) {
		out, err := r.Render("---\nsubject: ignored\n---\nbody", "Order {{ .id }}", map[string]any{"id": 7})
		require.NoError(t, err)
		assert.Equal(t, "Order 7", out.Subject)
	})

	t.Run("bad template", func(t *testing.T) {
		_, err := r.Render("{{ .name ", "s", nil)
		require.ErrorIs(t, err, mailer.ErrRenderFailed)
	})
}

func TestMailer_Send(t *testing.T) {
	t.Parallel()

	r, err := mailer.NewRenderer("<main>{{ .Content }}</main>")
	require.NoError(t, err)

	t.Run("delivers", func(t *testing.T) {
		t.Parallel()

		s := &recordingSender{}
		m := mailer.New(s, r, "site@example.com")
		err := m.Send(context.Background(), mailer.Params{
			To:      []string{"owner@example.com"},
			Subject: "Hello",
			Body:    "Hi *{{ .name }}*",
			Data:    map[string]any{"name": "Ada"},
		})
		require.NoError(t, err)
		require.Len(t, s.sent, 1)
		assert.Equal(t, "site@example.com", s.sent[0].From)
		assert.Equal(t, "<main><p>Hi <em>Ada</em></p>\n</main>", s.sent[0].HTML)
	})

	t.Run("no recipient", func(t *testing.T) {
		t.Parallel()

		m := mailer.New(&recordingSender{}, r, "")
		require.ErrorIs(t, m.Send(context.Background(), mailer.Params{Subject: "x", Body: "y"}), mailer.ErrNoRecipient)
	})

	t.Run("no subject", func(t *testing.T) {
		t.Parallel()

		m := mailer.New(&recordingSender{}, r, "")
		require.ErrorIs(t, m.Send(context.Background(), mailer.Params{To: []string{"a@example.com"}, Body: "y"}), mailer.ErrNoSubject)
	})

	t.Run("provider failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("rate limited")
		m := mailer.New(&recordingSender{err: boom}, r, "")
		err := m.Send(context.Background(), mailer.Params{To: []string{"a@example.com"}, Subject: "x", Body: "y"})
		require.ErrorIs(t, err, mailer.ErrSendFailed)
		require.ErrorIs(t, err, boom)
	})
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := mailer.LogSender{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	require.NoError(t, s.Send(context.Background(), &mailer.Message{To: []string{"a@example.com"}, Subject: "Hi", Text: "x"}))
	assert.Contains(t, buf.String(), "subject=Hi")
}
