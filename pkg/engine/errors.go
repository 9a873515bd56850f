package engine

import "errors"

var (
	// ErrDuplicateModule is returned when two modules share a name.
	ErrDuplicateModule = errors.New("engine: duplicate module")

	// ErrUnknownModule is returned for a module name that was never registered.
	ErrUnknownModule = errors.New("engine: unknown module")

	// ErrUnknownMethod is returned when a module has no processor of the given name.
	ErrUnknownMethod = errors.New("engine: unknown processor method")

	// ErrUnknownOptionSource is returned when no module provides the named options.
	ErrUnknownOptionSource = errors.New("engine: unknown option source")

	// ErrAlreadyStarted is returned when modules are registered after Start.
	ErrAlreadyStarted = errors.New("engine: already started")
)
