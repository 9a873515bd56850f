// Package job runs background work on River, a Postgres-backed queue.
//
// Every task travels as a single River job kind carrying the task name and a
// JSON payload, so tasks are plain Go types registered by name:
//
//	type SendTask struct{ sender mailer.Sender }
//
//	func (SendTask) Name() string { return "mail.send" }
//	func (t SendTask) Handle(ctx context.Context, m mailer.Message) error { ... }
//
//	mgr, err := job.NewManager(pool,
//	    job.WithTask[mailer.Message](SendTask{sender}),
//	    job.WithScheduledTask(PurgeTask{...}),
//	)
//
// Modules enqueue through the [Queue] interface. Scheduled tasks use standard
// five-field cron expressions.
package job
