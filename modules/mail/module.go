// Package mail sends form submissions by email.
//
// The send processor takes these arguments, usually filled from tokens:
//
//	to:        address or list of addresses
//	subject:   text/template source, optional with frontmatter subject
//	body:      markdown text/template source, or
//	template:  file under <site-root>/mail holding frontmatter and body
//	reply-to:  optional address
//	from:      optional address, defaults to mail.from
//
// Templates run against the submitted values. With a job queue the rendered
// message is enqueued as the mail.send task and delivered by a worker.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"

	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/job"
	"github.com/sitegear/sitegear/pkg/logger"
	"github.com/sitegear/sitegear/pkg/mailer"
)

const (
	ModuleName = "mail"
	TaskSend   = "mail.send"

	templateDir = "mail"
)

// Module exposes the send processor.
type Module struct {
	mailer   *mailer.Mailer
	queue    job.Queue
	logger   *slog.Logger
	siteRoot string
}

type Option func(*Module)

// WithQueue sends through the mail.send task instead of inline. The queue's
// workers need Task registered.
func WithQueue(q job.Queue) Option {
	return func(m *Module) {
		m.queue = q
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l.With(slog.String("module", ModuleName))
		}
	}
}

func New(ml *mailer.Mailer, opts ...Option) *Module {
	m := &Module{mailer: ml, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Module) Name() string        { return ModuleName }
func (m *Module) DisplayName() string { return "Mail" }

// Start records the site root templates are read from.
func (m *Module) Start(_ context.Context, e *engine.Engine) error {
	m.siteRoot = e.SiteRoot()
	return nil
}

func (m *Module) Processors() map[string]form.ProcessorFunc {
	return map[string]form.ProcessorFunc{
		"send": m.send,
	}
}

func (m *Module) send(ctx context.Context, call form.Call) (*form.Result, error) {
	p, err := m.params(call)
	if err != nil {
		return nil, err
	}
	msg, err := m.mailer.Compose(p)
	if err != nil {
		return nil, err
	}

	if m.queue != nil {
		if err := m.queue.Enqueue(ctx, TaskSend, msg, job.Tags("form:"+call.FormKey)); err != nil {
			return nil, fmt.Errorf("mail: enqueue: %w", err)
		}
		m.logger.DebugContext(ctx, "mail queued", slog.String("form_key", call.FormKey), slog.Any("to", msg.To))
		return nil, nil
	}
	if err := m.mailer.Deliver(ctx, msg); err != nil {
		return nil, err
	}
	m.logger.InfoContext(ctx, "mail sent", slog.String("form_key", call.FormKey), slog.Any("to", msg.To))
	return nil, nil
}

func (m *Module) params(call form.Call) (mailer.Params, error) {
	args := call.Arguments
	p := mailer.Params{
		Data:    call.Values,
		Subject: cast.ToString(args["subject"]),
		Body:    cast.ToString(args["body"]),
		From:    cast.ToString(args["from"]),
		ReplyTo: cast.ToString(args["reply-to"]),
		To:      recipients(args["to"]),
		Tags:    map[string]string{"form": call.FormKey},
	}
	if len(p.To) == 0 {
		return p, fmt.Errorf("%w: to", ErrMissingArgument)
	}
	if name := cast.ToString(args["template"]); name != "" {
		body, err := m.readTemplate(name)
		if err != nil {
			return p, err
		}
		p.Body = body
	}
	if p.Body == "" {
		return p, fmt.Errorf("%w: body or template", ErrMissingArgument)
	}
	return p, nil
}

func (m *Module) readTemplate(name string) (string, error) {
	root := filepath.Join(m.siteRoot, templateDir)
	path := filepath.Join(root, filepath.Clean("/"+name))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTemplateNotFound, name, err)
	}
	return string(data), nil
}

// recipients accepts a single address, a comma separated list or a list.
func recipients(v any) []string {
	list, ok := v.(string)
	var items []string
	if ok {
		items = []string{list}
	} else {
		items = cast.ToStringSlice(v)
	}
	var out []string
	for _, s := range items {
		for _, addr := range strings.Split(s, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				out = append(out, addr)
			}
		}
	}
	return out
}

// Task returns the worker task delivering queued messages.
func (m *Module) Task() job.Task[mailer.Message] {
	return NewSendTask(m.mailer)
}

// NewSendTask returns the mail.send task for workers created before the
// module.
func NewSendTask(ml *mailer.Mailer) job.Task[mailer.Message] {
	return sendTask{mailer: ml}
}

type sendTask struct {
	mailer *mailer.Mailer
}

func (sendTask) Name() string { return TaskSend }

func (t sendTask) Handle(ctx context.Context, msg mailer.Message) error {
	return t.mailer.Deliver(ctx, &msg)
}

var (
	_ engine.ProcessorProvider = (*Module)(nil)
	_ engine.Starter           = (*Module)(nil)
)
