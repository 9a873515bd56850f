// Package submissions records completed forms in PostgreSQL.
//
// The record processor stores the submitted values of a form, optionally
// restricted to the fields listed in its "fields" argument. PurgeTask
// deletes rows older than modules.submissions.retention on the
// modules.submissions.purge-schedule cron schedule.
package submissions

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/job"
)

const (
	ModuleName = "submissions"
	TaskPurge  = "submissions.purge"

	defaultRetention = 90 * 24 * time.Hour
	defaultSchedule  = "0 3 * * *"
)

type Module struct {
	store     Store
	logger    *slog.Logger
	now       func() time.Time
	retention time.Duration
	schedule  string
}

type Option func(*Module)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Module) {
		m.now = now
	}
}

// New creates the module, reading modules.submissions.retention and
// modules.submissions.purge-schedule from eng. A nil store fails every
// record and purge with ErrNoStore.
func New(eng *engine.Engine, store Store, opts ...Option) (*Module, error) {
	m := &Module{
		store:     store,
		logger:    eng.Logger().With(slog.String("module", ModuleName)),
		now:       time.Now,
		retention: defaultRetention,
		schedule:  defaultSchedule,
	}
	for _, opt := range opts {
		opt(m)
	}
	if raw := eng.ModuleSetting(ModuleName, "retention"); raw != nil {
		d, err := ParseRetention(raw)
		if err != nil {
			return nil, err
		}
		m.retention = d
	}
	if s := cast.ToString(eng.ModuleSetting(ModuleName, "purge-schedule")); s != "" {
		m.schedule = s
	}
	return m, nil
}

func (m *Module) Name() string        { return ModuleName }
func (m *Module) DisplayName() string { return "Form Submissions" }

func (m *Module) Processors() map[string]form.ProcessorFunc {
	return map[string]form.ProcessorFunc{
		"record": m.record,
	}
}

func (m *Module) record(ctx context.Context, call form.Call) (*form.Result, error) {
	if m.store == nil {
		return nil, ErrNoStore
	}
	values := call.Values
	if fields := cast.ToStringSlice(call.Arguments["fields"]); len(fields) > 0 {
		values = make(map[string]any, len(fields))
		for _, f := range fields {
			if v, ok := call.Values[f]; ok {
				values[f] = v
			}
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("submissions: id: %w", err)
	}
	sub := Submission{
		ID:        id,
		FormKey:   call.FormKey,
		Values:    maps.Clone(values),
		CreatedAt: m.now().UTC(),
	}
	if r := call.Request; r != nil {
		sub.RemoteAddr = r.RemoteAddr
		sub.UserAgent = r.UserAgent()
	}
	if err := m.store.Insert(ctx, sub); err != nil {
		return nil, err
	}
	m.logger.InfoContext(ctx, "form submission recorded", slog.String("form_key", call.FormKey), slog.String("id", id.String()))
	return nil, nil
}

// Purge deletes submissions older than the retention period.
func (m *Module) Purge(ctx context.Context) (int64, error) {
	if m.store == nil {
		return 0, ErrNoStore
	}
	n, err := m.store.Purge(ctx, m.now().Add(-m.retention))
	if err != nil {
		return 0, err
	}
	m.logger.InfoContext(ctx, "form submissions purged", slog.Int64("rows", n))
	return n, nil
}

// PurgeTask returns the periodic purge.
func (m *Module) PurgeTask() job.ScheduledTask {
	return purgeTask{m: m}
}

type purgeTask struct {
	m *Module
}

func (purgeTask) Name() string       { return TaskPurge }
func (t purgeTask) Schedule() string { return t.m.schedule }

func (t purgeTask) Handle(ctx context.Context) error {
	_, err := t.m.Purge(ctx)
	return err
}

// ParseRetention accepts a time.Duration, a duration string such as "720h",
// or a day count such as "90d".
func ParseRetention(v any) (time.Duration, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if days, found := strings.CutSuffix(s, "d"); found {
			n, err := strconv.Atoi(days)
			if err != nil || n <= 0 {
				return 0, fmt.Errorf("%w: %q", ErrInvalidRetention, s)
			}
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}
	d, err := cast.ToDurationE(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRetention, v)
	}
	return d, nil
}

var _ engine.ProcessorProvider = (*Module)(nil)
