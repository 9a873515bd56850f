package builder

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/logger"
)

// ProcessorResolver finds the function behind a "module:method" processor.
type ProcessorResolver interface {
	Processor(module, method string) (form.ProcessorFunc, error)
}

// OptionSource supplies selection options for fields declaring values-from.
type OptionSource interface {
	Options(name string) ([]form.Option, error)
}

// Builder turns decoded form definitions into form graphs.
type Builder struct {
	registry   *Registry
	processors ProcessorResolver
	options    OptionSource
	submitURL  func(formURL string) string
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithProcessors sets the resolver used for step processors. Without one, any
// definition that declares a processor fails to build.
func WithProcessors(r ProcessorResolver) Option {
	return func(b *Builder) {
		b.processors = r
	}
}

// WithOptionSource sets the provider used for values-from.
func WithOptionSource(s OptionSource) Option {
	return func(b *Builder) {
		b.options = s
	}
}

// WithSubmitURL sets how the form's submit URL is derived from its form-url.
func WithSubmitURL(fn func(formURL string) string) Option {
	return func(b *Builder) {
		if fn != nil {
			b.submitURL = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a builder resolving names through reg. A nil registry gets the defaults.
func New(reg *Registry, opts ...Option) *Builder {
	if reg == nil {
		reg = NewRegistry()
	}
	b := &Builder{
		registry:  reg,
		submitURL: func(formURL string) string { return formURL },
		logger:    logger.NewNope(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry returns the registry used for name resolution.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Build creates a form from def. Field values come from values, falling back
// to each field's default, and field errors come from errs.
//
// Decoded definitions carry no key order, so fields are added in the order
// the steps first reference them. Fields no step references follow in name
// order.
func (b *Builder) Build(def, values map[string]any, errs form.Errors) (*form.Form, error) {
	formURL := cast.ToString(def["form-url"])
	f := form.New(
		b.submitURL(formURL),
		cast.ToString(def["target-url"]),
		cast.ToString(def["cancel-url"]),
		cast.ToString(def["method"]),
	)
	f.SubmitButton = button(def["submit-button"])
	f.ResetButton = button(def["reset-button"])
	f.BackButton = button(def["back-button"])

	markers, err := toStringMap(def["constraint-label-markers"])
	if err != nil {
		return nil, fmt.Errorf("%w: constraint-label-markers: %w", ErrInvalidDefinition, err)
	}

	fields, err := toStringMap(def["fields"])
	if err != nil {
		return nil, fmt.Errorf("%w: fields: %w", ErrInvalidDefinition, err)
	}
	names := fieldOrder(def, fields)
	for _, name := range names {
		fd, err := toStringMap(fields[name])
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidDefinition, name, err)
		}
		field, err := b.buildField(name, fd, markers)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if v, ok := values[name]; ok {
			field.Value = v
		} else {
			field.Value = field.Default
		}
		field.SetErrors(errs[name])
		if err := f.AddField(field); err != nil {
			return nil, err
		}
	}

	named, err := toStringMap(def["fieldsets"])
	if err != nil {
		return nil, fmt.Errorf("%w: fieldsets: %w", ErrInvalidDefinition, err)
	}
	steps, err := toSlice(def["steps"])
	if err != nil || len(steps) == 0 {
		return nil, fmt.Errorf("%w: a form needs at least one step", ErrInvalidDefinition)
	}
	for i, sd := range steps {
		step, err := b.buildStep(f, sd, named)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		f.AddStep(step)
	}

	b.logger.Debug("form built",
		slog.String("form_url", formURL),
		slog.Int("fields", len(names)),
		slog.Int("steps", f.StepCount()))
	return f, nil
}

// fieldOrder lists the declared fields by first reference across the steps'
// fieldsets, then the unreferenced ones sorted by name. Malformed entries are
// skipped here and reported by the build itself.
func fieldOrder(def, fields map[string]any) []string {
	named, _ := toStringMap(def["fieldsets"])
	steps, _ := toSlice(def["steps"])

	names := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	add := func(name string) {
		if _, declared := fields[name]; !declared {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, sd := range steps {
		step, err := toStringMap(sd)
		if err != nil {
			continue
		}
		fieldsets, _ := toSlice(step["fieldsets"])
		for _, item := range fieldsets {
			if name, ok := item.(string); ok {
				item = named[name]
			}
			fs, err := toStringMap(item)
			if err != nil {
				continue
			}
			refs, _ := toSlice(fs["fields"])
			for _, ref := range refs {
				if name, ok := ref.(string); ok {
					add(name)
				} else if m, err := toStringMap(ref); err == nil {
					add(cast.ToString(m["field"]))
				}
			}
		}
	}

	rest := make([]string, 0, len(fields)-len(names))
	for name := range fields {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(names, rest...)
}

func (b *Builder) buildField(name string, def, constraintMarkers map[string]any) (*form.Field, error) {
	ref := cast.ToString(def["class"])
	if ref == "" {
		ref = cast.ToString(def["type"])
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidDefinition)
	}
	factory, err := b.registry.Field(ref)
	if err != nil {
		return nil, err
	}

	opts, err := b.buildOptions(def)
	if err != nil {
		return nil, err
	}
	field, err := factory(FieldSpec{Definition: def, Name: name, Options: opts})
	if err != nil {
		return nil, err
	}
	field.Label = cast.ToString(def["label"])
	field.Default = def["default"]

	constraints, err := toSlice(def["constraints"])
	if err != nil {
		return nil, fmt.Errorf("%w: constraints: %w", ErrInvalidDefinition, err)
	}
	for _, cd := range constraints {
		cdef, err := toStringMap(cd)
		if err != nil {
			return nil, fmt.Errorf("%w: constraint: %w", ErrInvalidDefinition, err)
		}
		cc, err := b.buildConstraint(cdef)
		if err != nil {
			return nil, err
		}
		field.AddConditionalConstraint(cc, -1)
		for _, m := range toStrings(constraintMarkers[cast.ToString(cdef["name"])]) {
			field.AddLabelMarker(m, -1)
		}
	}
	for _, m := range toStrings(def["label-markers"]) {
		field.AddLabelMarker(m, -1)
	}

	settings, err := toStringMap(def["settings"])
	if err != nil {
		return nil, fmt.Errorf("%w: settings: %w", ErrInvalidDefinition, err)
	}
	for k, v := range settings {
		field.SetSetting(k, v)
	}
	return field, nil
}

func (b *Builder) buildOptions(def map[string]any) ([]form.Option, error) {
	if src := cast.ToString(def["values-from"]); src != "" {
		if b.options == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOptionSource, src)
		}
		opts, err := b.options.Options(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnknownOptionSource, src, err)
		}
		return opts, nil
	}
	return parseOptions(def["values"])
}

// parseOptions accepts a list of strings, a list of {value, label} maps, or a
// map of value to label.
func parseOptions(raw any) ([]form.Option, error) {
	if raw == nil {
		return nil, nil
	}
	if list, err := toSlice(raw); err == nil {
		out := make([]form.Option, 0, len(list))
		for _, item := range list {
			if m, err := toStringMap(item); err == nil && m != nil {
				value := cast.ToString(m["value"])
				label := cast.ToString(m["label"])
				if label == "" {
					label = value
				}
				out = append(out, form.Option{Value: value, Label: label})
				continue
			}
			s := cast.ToString(item)
			out = append(out, form.Option{Value: s, Label: s})
		}
		return out, nil
	}
	m, err := toStringMap(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: values: %w", ErrInvalidDefinition, err)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]form.Option, 0, len(keys))
	for _, k := range keys {
		out = append(out, form.Option{Value: k, Label: cast.ToString(m[k])})
	}
	return out, nil
}

func (b *Builder) buildConstraint(def map[string]any) (*form.ConditionalConstraint, error) {
	ref := cast.ToString(def["class"])
	if ref == "" {
		ref = cast.ToString(def["name"])
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: constraint without name", ErrInvalidDefinition)
	}
	factory, err := b.registry.Constraint(ref)
	if err != nil {
		return nil, err
	}

	var options map[string]any
	switch raw := def["options"].(type) {
	case nil:
		options = map[string]any{}
	case map[string]any:
		options = raw
	default:
		if m, err := cast.ToStringMapE(raw); err == nil {
			options = m
		} else {
			options = map[string]any{"default": raw}
		}
	}
	c, err := factory(options)
	if err != nil {
		return nil, fmt.Errorf("constraint %q: %w", ref, err)
	}

	conditions, err := b.buildConditions(def["conditions"])
	if err != nil {
		return nil, err
	}
	return form.Conditional(c, conditions...), nil
}

func (b *Builder) buildConditions(raw any) ([]form.Condition, error) {
	list, err := toSlice(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: conditions: %w", ErrInvalidDefinition, err)
	}
	out := make([]form.Condition, 0, len(list))
	for _, item := range list {
		def, err := toStringMap(item)
		if err != nil {
			return nil, fmt.Errorf("%w: condition: %w", ErrInvalidDefinition, err)
		}
		ref := cast.ToString(def["class"])
		if ref == "" {
			ref = cast.ToString(def["condition"])
		}
		field := cast.ToString(def["field"])
		if ref == "" || field == "" {
			return nil, fmt.Errorf("%w: condition needs condition and field", ErrInvalidDefinition)
		}
		factory, err := b.registry.Condition(ref)
		if err != nil {
			return nil, err
		}
		c, err := factory(field, toStrings(def["values"]))
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", ref, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (b *Builder) buildStep(f *form.Form, raw any, named map[string]any) (*form.Step, error) {
	def, err := toStringMap(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	step := form.NewStep(
		cast.ToBool(def["one-way"]),
		cast.ToString(def["heading"]),
		cast.ToString(def["error-heading"]),
	)

	fieldsets, err := toSlice(def["fieldsets"])
	if err != nil {
		return nil, fmt.Errorf("%w: fieldsets: %w", ErrInvalidDefinition, err)
	}
	for _, item := range fieldsets {
		if name, ok := item.(string); ok {
			ref, found := named[name]
			if !found {
				return nil, fmt.Errorf("%w: fieldset %q is not declared", ErrInvalidDefinition, name)
			}
			item = ref
		}
		fs, err := buildFieldset(f, item)
		if err != nil {
			return nil, err
		}
		step.AddFieldset(fs)
	}

	processors, err := toSlice(def["processors"])
	if err != nil {
		return nil, fmt.Errorf("%w: processors: %w", ErrInvalidDefinition, err)
	}
	for _, item := range processors {
		p, err := b.buildProcessor(item)
		if err != nil {
			return nil, err
		}
		step.AddProcessor(p)
	}
	return step, nil
}

func buildFieldset(f *form.Form, raw any) (*form.Fieldset, error) {
	def, err := toStringMap(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: fieldset: %w", ErrInvalidDefinition, err)
	}
	fs := form.NewFieldset(cast.ToString(def["heading"]))
	refs, err := toSlice(def["fields"])
	if err != nil {
		return nil, fmt.Errorf("%w: fieldset fields: %w", ErrInvalidDefinition, err)
	}
	for _, item := range refs {
		ref := form.FieldReference{Wrapped: true}
		if name, ok := item.(string); ok {
			ref.Field = name
		} else {
			m, err := toStringMap(item)
			if err != nil {
				return nil, fmt.Errorf("%w: field reference: %w", ErrInvalidDefinition, err)
			}
			ref.Field = cast.ToString(m["field"])
			ref.ReadOnly = cast.ToBool(m["read-only"])
			if w, ok := m["wrapped"]; ok {
				ref.Wrapped = cast.ToBool(w)
			}
		}
		if !f.HasField(ref.Field) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, ref.Field)
		}
		fs.AddFieldReference(ref)
	}
	return fs, nil
}

func (b *Builder) buildProcessor(raw any) (*form.Processor, error) {
	var def map[string]any
	if s, ok := raw.(string); ok {
		module, method, found := strings.Cut(s, ":")
		if !found {
			return nil, fmt.Errorf("%w: processor %q is not module:method", ErrInvalidDefinition, s)
		}
		def = map[string]any{"module": module, "method": method}
	} else {
		m, err := toStringMap(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: processor: %w", ErrInvalidDefinition, err)
		}
		def = m
	}

	p := &form.Processor{
		Module:              cast.ToString(def["module"]),
		Method:              cast.ToString(def["method"]),
		ExceptionFieldNames: toStrings(def["exception-field-names"]),
	}
	if p.Module == "" || p.Method == "" {
		return nil, fmt.Errorf("%w: processor needs module and method", ErrInvalidDefinition)
	}
	if b.processors == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProcessor, p.Name())
	}
	fn, err := b.processors.Processor(p.Module, p.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnknownProcessor, p.Name(), err)
	}
	p.Func = fn

	action, err := form.ParseExceptionAction(cast.ToString(def["exception-action"]))
	if err != nil {
		return nil, err
	}
	p.ExceptionAction = action

	if p.Arguments, err = toStringMap(def["arguments"]); err != nil {
		return nil, fmt.Errorf("%w: arguments: %w", ErrInvalidDefinition, err)
	}
	if p.Conditions, err = b.buildConditions(def["conditions"]); err != nil {
		return nil, err
	}
	return p, nil
}

// button returns nil for an absent or false button, otherwise its attributes.
func button(raw any) map[string]any {
	switch v := raw.(type) {
	case nil:
		return nil
	case bool:
		if !v {
			return nil
		}
		return map[string]any{}
	case string:
		return map[string]any{"value": v}
	}
	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil
	}
	return m
}

func toStringMap(raw any) (map[string]any, error) {
	if raw == nil {
		return nil, nil
	}
	return cast.ToStringMapE(raw)
}

func toSlice(raw any) ([]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	}
	return cast.ToSliceE(raw)
}

// toStrings accepts a single scalar or a list.
func toStrings(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	}
	return cast.ToStringSlice(raw)
}
