package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"

	"github.com/sitegear/sitegear/modules/forms"
	"github.com/sitegear/sitegear/modules/iso"
	"github.com/sitegear/sitegear/modules/mail"
	"github.com/sitegear/sitegear/modules/submissions"
	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/job"
	"github.com/sitegear/sitegear/pkg/mailer"
	"github.com/sitegear/sitegear/pkg/mailer/resend"
)

// site is an engine with the standard modules registered.
type site struct {
	engine      *engine.Engine
	forms       *forms.Module
	mail        *mail.Module
	submissions *submissions.Module
	jobs        *job.Manager
}

// newSite wires the modules. Without a pool submissions are not stored;
// with jobs.enabled and a pool, mail is sent by background workers.
func newSite(cfg *viper.Viper, log *slog.Logger, pool *pgxpool.Pool) (*site, error) {
	eng := engine.New(cfg, engine.WithLogger(log))

	var mailCfg resend.Config
	if err := cfg.UnmarshalKey("mail", &mailCfg); err != nil {
		return nil, fmt.Errorf("mail config: %w", err)
	}
	var sender mailer.Sender = mailer.LogSender{Logger: log}
	if mailCfg.APIKey != "" {
		sender = resend.New(mailCfg)
	}
	renderer, err := mailer.NewRenderer(cfg.GetString("mail.layout"))
	if err != nil {
		return nil, err
	}
	ml := mailer.New(sender, renderer, mailer.Recipient(mailCfg.FromName, mailCfg.From))

	var store submissions.Store
	if pool != nil {
		store = submissions.NewPostgresStore(pool)
	}
	subs, err := submissions.New(eng, store)
	if err != nil {
		return nil, err
	}

	s := &site{engine: eng, submissions: subs}
	mailOpts := []mail.Option{mail.WithLogger(log)}
	if pool != nil && cfg.GetBool("jobs.enabled") {
		s.jobs, err = job.NewManager(pool,
			job.WithLogger(log),
			job.WithMaxWorkers(cfg.GetInt("jobs.max-workers")),
			job.WithTask(mail.NewSendTask(ml)),
			job.WithScheduledTask(subs.PurgeTask()),
		)
		if err != nil {
			return nil, err
		}
		mailOpts = append(mailOpts, mail.WithQueue(s.jobs))
	}
	s.mail = mail.New(ml, mailOpts...)

	s.forms = forms.New(eng)
	if err := eng.Register(s.forms, s.mail, iso.New(), subs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *site) start(ctx context.Context) error {
	return s.engine.Start(ctx)
}
