package forms

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cast"

	"github.com/sitegear/sitegear/pkg/cache"
	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/form/builder"
)

// ModuleName is the module's engine name and configuration key.
const ModuleName = "forms"

// Generator builds a form for a key on demand. It runs on every request
// that needs the form, so the returned graph may be modified freely.
type Generator func(ctx context.Context, key string) (*form.Form, error)

type registration struct {
	form      *form.Form
	generator Generator
	paths     []string
}

// Module serves multi-step forms backed by the visitor's session.
type Module struct {
	engine   *engine.Engine
	registry *builder.Registry
	loader   *definitionLoader
	defs     cache.Cache[map[string]any]
	logger   *slog.Logger
	forms    map[string]*registration
	ownCache bool
	mu       sync.Mutex
}

// Option configures the Module.
type Option func(*Module)

// WithRegistry replaces the builder registry, for sites adding their own
// field types, constraints or conditions.
func WithRegistry(r *builder.Registry) Option {
	return func(m *Module) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithDefinitionCache replaces the in-memory cache of parsed definition files.
func WithDefinitionCache(c cache.Cache[map[string]any]) Option {
	return func(m *Module) {
		if c != nil {
			m.defs = c
		}
	}
}

// New creates the forms module. Register it with eng so its processors and
// option sources resolve through the engine.
func New(eng *engine.Engine, opts ...Option) *Module {
	m := &Module{
		engine:   eng,
		registry: builder.NewRegistry(),
		logger:   eng.Logger().With(slog.String("module", ModuleName)),
		forms:    make(map[string]*registration),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.defs == nil {
		m.defs = cache.NewMemory[map[string]any]()
		m.ownCache = true
	}
	m.loader = newDefinitionLoader(m.defs, m.logger)
	return m
}

func (m *Module) Name() string        { return ModuleName }
func (m *Module) DisplayName() string { return "Forms" }

// Start begins watching definition files when modules.forms.watch is set.
func (m *Module) Start(ctx context.Context, _ *engine.Engine) error {
	if !cast.ToBool(m.setting("watch")) {
		return nil
	}
	if err := m.loader.start(); err != nil {
		return err
	}
	m.logger.DebugContext(ctx, "watching form definitions")
	return nil
}

// Stop ends the watcher and releases the definition cache.
func (m *Module) Stop(context.Context) error {
	err := m.loader.stop()
	if m.ownCache {
		_ = m.defs.Close()
	}
	return err
}

// Mount returns the path prefix of the module's routes.
func (m *Module) Mount() string {
	mount := cast.ToString(m.setting("mount"))
	if mount == "" {
		mount = "/forms"
	}
	return "/" + strings.Trim(mount, "/")
}

// RouteURL returns the URL of a form route: "" for submit, or one of
// "jump", "initialise", "view", "steps" or "values".
func (m *Module) RouteURL(key, route string) string {
	u := m.Mount() + "/" + url.PathEscape(key)
	if route != "" {
		u += "/" + route
	}
	return u
}

func (m *Module) setting(key string) any {
	return m.engine.ModuleSetting(ModuleName, key)
}

func (m *Module) definitionDir() string {
	dir := cast.ToString(m.setting("directory"))
	if dir == "" {
		dir = "forms"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.engine.SiteRoot(), dir)
}

var (
	_ engine.Module  = (*Module)(nil)
	_ engine.Starter = (*Module)(nil)
	_ engine.Stopper = (*Module)(nil)
)

// DefinitionKeys lists the keys of the definition files in the forms
// directory, sorted.
func (m *Module) DefinitionKeys() ([]string, error) {
	entries, err := os.ReadDir(m.definitionDir())
	if err != nil {
		return nil, fmt.Errorf("forms: list definitions: %w", err)
	}
	seen := make(map[string]struct{})
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		key := strings.TrimSuffix(e.Name(), ext)
		if !slices.Contains(definitionExtensions, strings.ToLower(ext)) || !validKey(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}
