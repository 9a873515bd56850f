package job

import "errors"

var (
	// ErrNotConfigured is returned when a queue is needed but jobs are disabled.
	ErrNotConfigured = errors.New("job: not configured")

	// ErrUnknownTask is returned for a task name with no registered handler.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrInvalidPayload is returned when a payload does not decode into the task's type.
	ErrInvalidPayload = errors.New("job: invalid payload")

	ErrAlreadyStarted = errors.New("job: already started")
	ErrNotStarted     = errors.New("job: not started")

	// ErrPoolRequired is returned by NewManager without a database pool.
	ErrPoolRequired = errors.New("job: pool is required")

	ErrHealthcheckFailed = errors.New("job: healthcheck failed")
)
