package submissions_test

import (
	"context"
	"errors"
	"io/fs"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear/modules/submissions"
	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
)

type memStore struct {
	rows   []submissions.Submission
	err    error
	before time.Time
	mu     sync.Mutex
}

func (s *memStore) Insert(_ context.Context, sub submissions.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, sub)
	return nil
}

func (s *memStore) List(_ context.Context, formKey string, limit int) ([]submissions.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []submissions.Submission
	for _, r := range s.rows {
		if r.FormKey == formKey && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) Purge(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.before = before
	var kept []submissions.Submission
	for _, r := range s.rows {
		if !r.CreatedAt.Before(before) {
			kept = append(kept, r)
		}
	}
	n := int64(len(s.rows) - len(kept))
	s.rows = kept
	return n, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRecord(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	m, err := submissions.New(engine.New(nil), store, submissions.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	record := m.Processors()["record"]

	req := httptest.NewRequest("POST", "/forms/enquiry", nil)
	req.Header.Set("User-Agent", "test-agent")

	values := map[string]any{"name": "Ada", "email": "ada@example.com", "notes": "private"}
	res, err := record(context.Background(), form.Call{Request: req, Values: values, FormKey: "enquiry"})
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = record(context.Background(), form.Call{
		Values:    values,
		Arguments: map[string]any{"fields": []any{"name", "missing"}},
		FormKey:   "enquiry",
	})
	require.NoError(t, err)

	rows, err := store.List(context.Background(), "enquiry", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, values, rows[0].Values)
	assert.Equal(t, "test-agent", rows[0].UserAgent)
	assert.Equal(t, "192.0.2.1:1234", rows[0].RemoteAddr)
	assert.Equal(t, fixedNow, rows[0].CreatedAt)
	assert.Equal(t, map[string]any{"name": "Ada"}, rows[1].Values)
	assert.NotEqual(t, rows[0].ID, rows[1].ID)
	assert.Equal(t, 7, int(rows[0].ID.Version()))
}

func TestRecord_Errors(t *testing.T) {
	t.Parallel()

	m, err := submissions.New(engine.New(nil), nil)
	require.NoError(t, err)
	_, err = m.Processors()["record"](context.Background(), form.Call{FormKey: "x"})
	require.ErrorIs(t, err, submissions.ErrNoStore)
	_, err = m.Purge(context.Background())
	require.ErrorIs(t, err, submissions.ErrNoStore)

	boom := errors.New("connection reset")
	m, err = submissions.New(engine.New(nil), &memStore{err: boom})
	require.NoError(t, err)
	_, err = m.Processors()["record"](context.Background(), form.Call{FormKey: "x"})
	require.ErrorIs(t, err, boom)
}

func TestPurge(t *testing.T) {
	t.Parallel()

	store := &memStore{rows: []submissions.Submission{
		{FormKey: "a", CreatedAt: fixedNow.Add(-100 * 24 * time.Hour)},
		{FormKey: "a", CreatedAt: fixedNow.Add(-time.Hour)},
	}}

	cfg := viper.New()
	engine.SetDefaults(cfg)
	cfg.Set("modules.submissions.retention", "30d")
	cfg.Set("modules.submissions.purge-schedule", "*/15 * * * *")
	m, err := submissions.New(engine.New(cfg), store, submissions.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	task := m.PurgeTask()
	assert.Equal(t, submissions.TaskPurge, task.Name())
	assert.Equal(t, "*/15 * * * *", task.Schedule())

	require.NoError(t, task.Handle(context.Background()))
	assert.Equal(t, fixedNow.Add(-30*24*time.Hour), store.before)
	assert.Len(t, store.rows, 1)
}

func TestNew_InvalidRetention(t *testing.T) {
	t.Parallel()

	cfg := viper.New()
	cfg.Set("modules.submissions.retention", "soon")
	_, err := submissions.New(engine.New(cfg), nil)
	require.ErrorIs(t, err, submissions.ErrInvalidRetention)
}

func TestParseRetention(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      any
		want    time.Duration
		wantErr bool
	}{
		{in: "90d", want: 90 * 24 * time.Hour},
		{in: " 7d ", want: 7 * 24 * time.Hour},
		{in: "720h", want: 720 * time.Hour},
		{in: 48 * time.Hour, want: 48 * time.Hour},
		{in: "0d", wantErr: true},
		{in: "xd", wantErr: true},
		{in: "-1h", wantErr: true},
		{in: "soon", wantErr: true},
	}
	for _, tt := range tests {
		got, err := submissions.ParseRetention(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, submissions.ErrInvalidRetention, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	data, err := fs.ReadFile(submissions.Migrations(), "00001_form_submissions.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS form_submissions")
}
