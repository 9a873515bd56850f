package forms_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear/modules/forms"
	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/session"
)

const enquiryYAML = `
form-url: /enquiry
target-url: thanks
submit-button:
  value: Next
back-button:
  value: Back
fields:
  name:
    type: input
    label: Name
    constraints:
      - name: not-blank
  email:
    type: input
    label: Email
    constraints:
      - name: email
  comments:
    type: textarea
    label: Comments
  rating:
    type: select
    label: Rating
    values: ["1", "2", "3"]
fieldsets:
  contact:
    heading: Contact
    fields: [name, email]
steps:
  - heading: Your details
    fieldsets: [contact]
  - heading: Your enquiry
    one-way: true
    fieldsets:
      - fields: [comments]
    processors:
      - module: recorder
        method: record
  - heading: Feedback
    fieldsets:
      - fields: [rating, {field: comments, read-only: true}]
`

// recorder is a module whose processors record their calls.
type recorder struct {
	err    error
	result *form.Result
	calls  []form.Call
	mu     sync.Mutex
}

func (r *recorder) Name() string        { return "recorder" }
func (r *recorder) DisplayName() string { return "Recorder" }

func (r *recorder) Processors() map[string]form.ProcessorFunc {
	return map[string]form.ProcessorFunc{
		"record": func(_ context.Context, call form.Call) (*form.Result, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.calls = append(r.calls, call)
			return r.result, r.err
		},
		"explode": func(context.Context, form.Call) (*form.Result, error) {
			return nil, errors.New("mail server unavailable")
		},
	}
}

func (r *recorder) Calls() []form.Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]form.Call(nil), r.calls...)
}

type fixture struct {
	module   *forms.Module
	engine   *engine.Engine
	recorder *recorder
	root     string
}

// newFixture creates a site root holding files under forms/ and an engine
// with the forms and recorder modules registered.
func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "forms"), 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, "forms", name), []byte(content), 0o644))
	}

	cfg := viper.New()
	engine.SetDefaults(cfg)
	cfg.Set("site.root", root)
	cfg.Set("modules.forms.watch", false)

	eng := engine.New(cfg)
	rec := &recorder{}
	m := forms.New(eng)
	require.NoError(t, eng.Register(m, rec))
	require.NoError(t, eng.Start(context.Background()))
	t.Cleanup(func() { _ = eng.Stop(context.Background()) })

	return &fixture{module: m, engine: eng, recorder: rec, root: root}
}

func newSession() *session.Session {
	return session.New("sid", "token", time.Now().Add(time.Hour))
}
