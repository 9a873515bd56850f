package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notice struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
}

type noticeTask struct {
	got  notice
	err  error
	runs int
}

func (t *noticeTask) Name() string { return "mail.send" }

func (t *noticeTask) Handle(_ context.Context, n notice) error {
	t.runs++
	t.got = n
	return t.err
}

type purgeTask struct{ runs int }

func (*purgeTask) Name() string     { return "submissions.purge" }
func (*purgeTask) Schedule() string { return "0 3 * * *" }
func (p *purgeTask) Handle(context.Context) error {
	p.runs++
	return nil
}

func TestWithTask(t *testing.T) {
	t.Parallel()

	task := &noticeTask{}
	cfg := &config{registry: newTaskRegistry(), queues: map[string]int{}}
	WithTask[notice](task)(cfg)

	executor, ok := cfg.registry.get("mail.send")
	require.True(t, ok)

	raw, err := json.Marshal(notice{To: "a@example.com", Subject: "Enquiry"})
	require.NoError(t, err)
	require.NoError(t, executor.Execute(context.Background(), raw))
	assert.Equal(t, notice{To: "a@example.com", Subject: "Enquiry"}, task.got)

	t.Run("empty payload", func(t *testing.T) {
		require.NoError(t, executor.Execute(context.Background(), nil))
		assert.Equal(t, notice{}, task.got)
	})

	t.Run("invalid payload", func(t *testing.T) {
		err := executor.Execute(context.Background(), []byte("{"))
		require.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestTaskWrapper_PropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("smtp down")
	w := &taskWrapper[notice]{task: &noticeTask{err: boom}}
	require.ErrorIs(t, w.Execute(context.Background(), nil), boom)
}

func TestScheduledTaskExecutor(t *testing.T) {
	t.Parallel()

	task := &purgeTask{}
	e := &scheduledTaskExecutor{handler: task.Handle}
	require.NoError(t, e.Execute(context.Background(), []byte(`{"ignored":true}`)))
	assert.Equal(t, 1, task.runs)
}

func TestTaskRegistry_Names(t *testing.T) {
	t.Parallel()

	r := newTaskRegistry()
	assert.Empty(t, r.names())
	r.register("b", &scheduledTaskExecutor{})
	r.register("a", &scheduledTaskExecutor{})
	assert.Equal(t, []string{"a", "b"}, r.names())
}

func TestParseCronSchedule(t *testing.T) {
	t.Parallel()

	valid := []string{"* * * * *", "0 3 * * *", "*/15 * * * *", "0 0 * * 0"}
	for _, expr := range valid {
		s, err := parseCronSchedule(expr)
		require.NoError(t, err, expr)
		now := time.Now()
		assert.True(t, s.Next(now).After(now), expr)
	}

	invalid := []string{"", "* * *", "* * * * * *", "60 * * * *", "* * * 13 *", "nonsense"}
	for _, expr := range invalid {
		_, err := parseCronSchedule(expr)
		assert.Error(t, err, expr)
	}

	s, err := parseCronSchedule("0 3 * * *")
	require.NoError(t, err)
	base := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC), s.Next(base))
}

func TestBuildJobArgs(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	args, opts, err := buildJobArgs("mail.send", notice{To: "x@example.com"},
		InQueue("mail"),
		ScheduledAt(at),
		MaxAttempts(5),
		Priority(2),
		Tags("forms", "contact"),
		UniqueFor(time.Hour, "contact:x@example.com"),
	)
	require.NoError(t, err)

	assert.Equal(t, "sitegear:task", args.Kind())
	assert.Equal(t, "mail.send", args.TaskName)
	assert.JSONEq(t, `{"to":"x@example.com","subject":""}`, string(args.Payload))
	assert.Equal(t, "contact:x@example.com", args.UniqueKey)
	assert.Equal(t, "mail", opts.Queue)
	assert.Equal(t, at, opts.ScheduledAt)
	assert.Equal(t, 5, opts.MaxAttempts)
	assert.Equal(t, 2, opts.Priority)
	assert.Equal(t, []string{"forms", "contact"}, opts.Tags)
	assert.Equal(t, time.Hour, opts.UniqueOpts.ByPeriod)

	t.Run("nil payload", func(t *testing.T) {
		args, _, err := buildJobArgs("submissions.purge", nil)
		require.NoError(t, err)
		assert.Nil(t, args.Payload)
	})

	t.Run("unmarshalable payload", func(t *testing.T) {
		_, _, err := buildJobArgs("x", make(chan int))
		require.Error(t, err)
	})

	t.Run("empty queue keeps default", func(t *testing.T) {
		cfg := &enqueueConfig{queue: "mail"}
		InQueue("")(cfg)
		assert.Equal(t, "mail", cfg.queue)
	})
}

func TestNewManager_NilPool(t *testing.T) {
	t.Parallel()

	_, err := NewManager(nil)
	require.ErrorIs(t, err, ErrPoolRequired)
}

func TestHealthcheck_NilManager(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrHealthcheckFailed)
	require.ErrorIs(t, err, ErrNotConfigured)
}
