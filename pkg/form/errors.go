package form

import "errors"

var (
	// ErrStepOutOfRange is returned when a step index falls outside [0, N).
	ErrStepOutOfRange = errors.New("form: step out of range")

	// ErrStepNotAvailable is returned when a step exists but the visitor has not reached it.
	ErrStepNotAvailable = errors.New("form: step not available")

	// ErrDuplicateField is returned when a field name is added to a form twice.
	ErrDuplicateField = errors.New("form: duplicate field")

	// ErrUnknownExceptionAction is returned for exception actions other than
	// rethrow, message, fail or ignore.
	ErrUnknownExceptionAction = errors.New("form: unknown exception action")
)
