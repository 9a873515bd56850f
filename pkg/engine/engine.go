package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/logger"
)

// Engine holds the registered modules and the configuration they share.
type Engine struct {
	config  *viper.Viper
	logger  *slog.Logger
	byName  map[string]Module
	modules []Module
	mu      sync.RWMutex
	started bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Modules derive theirs from it.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine over cfg. A nil cfg gets the defaults only.
func New(cfg *viper.Viper, opts ...Option) *Engine {
	if cfg == nil {
		cfg = viper.New()
		SetDefaults(cfg)
	}
	e := &Engine{
		config: cfg,
		logger: logger.NewNope(),
		byName: make(map[string]Module),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds modules in order. Names must be unique.
func (e *Engine) Register(mods ...Module) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	for _, m := range mods {
		name := m.Name()
		if _, dup := e.byName[name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateModule, name)
		}
		e.byName[name] = m
		e.modules = append(e.modules, m)
	}
	return nil
}

// Module returns the named module.
func (e *Engine) Module(name string) (Module, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	m, ok := e.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}
	return m, nil
}

// Modules returns the modules in registration order.
func (e *Engine) Modules() []Module {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.modules)
}

// Start starts every Starter in registration order, stopping at the first error.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	e.started = true
	mods := slices.Clone(e.modules)
	e.mu.Unlock()

	for _, m := range mods {
		s, ok := m.(Starter)
		if !ok {
			continue
		}
		if err := s.Start(ctx, e); err != nil {
			return fmt.Errorf("start %s: %w", m.Name(), err)
		}
		e.logger.DebugContext(ctx, "module started", slog.String("module", m.Name()))
	}
	return nil
}

// Stop stops every Stopper in reverse registration order and joins the errors.
func (e *Engine) Stop(ctx context.Context) error {
	mods := e.Modules()
	slices.Reverse(mods)

	var errs []error
	for _, m := range mods {
		if s, ok := m.(Stopper); ok {
			if err := s.Stop(ctx); err != nil {
				errs = append(errs, fmt.Errorf("stop %s: %w", m.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Config returns the engine configuration.
func (e *Engine) Config() *viper.Viper {
	return e.config
}

// ModuleSetting returns "modules.<module>.<key>", nil when unset.
func (e *Engine) ModuleSetting(module, key string) any {
	return e.config.Get("modules." + module + "." + key)
}

// SiteRoot returns the absolute site directory.
func (e *Engine) SiteRoot() string {
	root := e.config.GetString("site.root")
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// Processor resolves a module's processor method.
func (e *Engine) Processor(module, method string) (form.ProcessorFunc, error) {
	m, err := e.Module(module)
	if err != nil {
		return nil, err
	}
	p, ok := m.(ProcessorProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", ErrUnknownMethod, module, method)
	}
	fn, ok := p.Processors()[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", ErrUnknownMethod, module, method)
	}
	return fn, nil
}

// Options resolves "<module>.<source>" against the module's OptionProvider.
func (e *Engine) Options(name string) ([]form.Option, error) {
	module, source, ok := strings.Cut(name, ".")
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOptionSource, name)
	}
	m, err := e.Module(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnknownOptionSource, name, err)
	}
	p, ok := m.(OptionProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOptionSource, name)
	}
	return p.Options(source)
}
