package forms

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/spf13/cast"

	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/form/builder"
	"github.com/sitegear/sitegear/pkg/session"
)

// RegisterDefinitionPath adds definition files for key. Files are merged in
// registration order, later files overriding earlier ones.
func (m *Module) RegisterDefinitionPath(key string, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.forms[key]
	switch {
	case !ok:
		reg = &registration{}
		m.forms[key] = reg
	case reg.form != nil:
		return fmt.Errorf("%w: %s", ErrAlreadyGenerated, key)
	case reg.generator != nil:
		return fmt.Errorf("%w: %s", ErrGeneratorRegistered, key)
	}
	reg.paths = append(reg.paths, paths...)
	m.logger.Debug("form definition path registered", slog.String("form_key", key), slog.Any("paths", paths))
	return nil
}

// RegisterGenerator backs key with fn.
func (m *Module) RegisterGenerator(key string, fn Generator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.forms[key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key)
	}
	m.forms[key] = &registration{generator: fn}
	return nil
}

// RegisterForm backs key with a prebuilt form. The form is shared by all
// requests: its fields never receive visitor values, which are reported by
// View instead.
func (m *Module) RegisterForm(key string, f *form.Form) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.forms[key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key)
	}
	m.forms[key] = &registration{form: f}
	return nil
}

// Form returns the form for key with the visitor's stored values and errors
// applied. Keys without a registration are loaded from
// <site-root>/<modules.forms.directory>/<key>.{json,yaml,yml,toml}.
func (m *Module) Form(ctx context.Context, key string, s session.Accessor, formURL string) (*form.Form, error) {
	m.mu.Lock()
	reg, ok := m.forms[key]
	var paths []string
	if ok {
		paths = append(paths, reg.paths...)
	}
	m.mu.Unlock()

	switch {
	case ok && reg.form != nil:
		return reg.form, nil
	case ok && reg.generator != nil:
		f, err := reg.generator(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("forms: generate %s: %w", key, err)
		}
		return f, nil
	case !ok:
		if !validKey(key) {
			return nil, fmt.Errorf("%w: %s", ErrFormNotFound, key)
		}
		path, found := m.loader.find(m.definitionDir(), key)
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrFormNotFound, key)
		}
		paths = []string{path}
	}

	st := NewState(s)
	values := st.Values(key)
	def, err := m.definition(ctx, key, formURL, paths, values)
	if err != nil {
		return nil, err
	}
	b := builder.New(m.registry,
		builder.WithProcessors(m.engine),
		builder.WithOptionSource(m.engine),
		builder.WithSubmitURL(func(formURL string) string {
			return m.RouteURL(key, "") + "?form-url=" + url.QueryEscape(formURL)
		}),
		builder.WithLogger(m.logger),
	)
	f, err := b.Build(def, values, st.Errors(key))
	if err != nil {
		return nil, fmt.Errorf("forms: build %s: %w", key, err)
	}
	return f, nil
}

// definition merges the module's form-builder defaults and the definition
// files, then replaces tokens. The form URL comes from the request, so it is
// merged after replacement and never resolved as a token.
func (m *Module) definition(ctx context.Context, key, formURL string, paths []string, values map[string]any) (map[string]any, error) {
	defaults, err := cast.ToStringMapE(m.setting("form-builder"))
	if err != nil {
		defaults = nil
	}
	var loaded map[string]any
	for _, path := range paths {
		d, err := m.loader.load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("forms: load %s: %w", key, err)
		}
		loaded = mergeDefinitions(loaded, d)
	}

	t := tokens{
		config:       m.setting,
		engineConfig: m.engine.Config().Get,
		data:         values,
	}
	if defaults, err = t.replaceMap(defaults); err != nil {
		return nil, fmt.Errorf("forms: %s: %w", key, err)
	}
	if loaded, err = t.replaceMap(loaded); err != nil {
		return nil, fmt.Errorf("forms: %s: %w", key, err)
	}
	def := mergeDefinitions(defaults, map[string]any{"form-url": formURL})
	return mergeDefinitions(def, loaded), nil
}
