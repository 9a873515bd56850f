package engine

import (
	"context"

	"github.com/sitegear/sitegear/pkg/form"
)

// Module is a pluggable unit of site functionality.
type Module interface {
	// Name is the key used in configuration and processor references.
	Name() string
	DisplayName() string
}

// Starter is implemented by modules that need the engine before serving.
type Starter interface {
	Start(ctx context.Context, e *Engine) error
}

// Stopper is implemented by modules holding resources to release on shutdown.
type Stopper interface {
	Stop(ctx context.Context) error
}

// ProcessorProvider is implemented by modules exposing form processors,
// keyed by method name.
type ProcessorProvider interface {
	Processors() map[string]form.ProcessorFunc
}

// OptionProvider is implemented by modules supplying selection options.
// Sources are addressed as "<module>.<source>".
type OptionProvider interface {
	Options(source string) ([]form.Option, error)
}
