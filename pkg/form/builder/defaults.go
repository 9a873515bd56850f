package builder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"github.com/sitegear/sitegear/pkg/form"
)

func registerDefaults(r *Registry) {
	plain := func(typ string, settings map[string]any) FieldFactory {
		return func(spec FieldSpec) (*form.Field, error) {
			f := form.NewField(spec.Name, typ)
			for k, v := range settings {
				f.SetSetting(k, v)
			}
			return f, nil
		}
	}
	selection := func(typ string) FieldFactory {
		return func(spec FieldSpec) (*form.Field, error) {
			if len(spec.Options) == 0 {
				return nil, fmt.Errorf("%w: %s field %q has no values", ErrInvalidDefinition, typ, spec.Name)
			}
			f := form.NewField(spec.Name, typ)
			f.Options = spec.Options
			f.Multiple = typ == form.TypeSelect && cast.ToBool(spec.Definition["multiple"])
			return f, nil
		}
	}

	r.RegisterField(DefaultNamespace, form.TypeInput, plain(form.TypeInput, map[string]any{"type": "text"}))
	r.RegisterField(DefaultNamespace, form.TypeTextarea, plain(form.TypeTextarea, nil))
	r.RegisterField(DefaultNamespace, form.TypeCheckbox, plain(form.TypeCheckbox, nil))
	r.RegisterField(DefaultNamespace, form.TypeHidden, plain(form.TypeHidden, nil))
	r.RegisterField(DefaultNamespace, form.TypeSelect, selection(form.TypeSelect))
	r.RegisterField(DefaultNamespace, form.TypeRadios, selection(form.TypeRadios))
	r.RegisterField(DefaultNamespace, form.TypeCheckboxes, selection(form.TypeCheckboxes))

	r.RegisterConstraint(DefaultNamespace, "not-blank", func(o map[string]any) (form.Constraint, error) {
		return form.NotBlank{Message: optString(o, "message")}, nil
	})
	r.RegisterConstraint(DefaultNamespace, "blank", func(o map[string]any) (form.Constraint, error) {
		return form.Blank{Message: optString(o, "message")}, nil
	})
	r.RegisterConstraint(DefaultNamespace, "not-null", func(o map[string]any) (form.Constraint, error) {
		return form.NotNull{Message: optString(o, "message")}, nil
	})
	r.RegisterConstraint(DefaultNamespace, "email", func(o map[string]any) (form.Constraint, error) {
		return form.Email{Message: optString(o, "message")}, nil
	})
	r.RegisterConstraint(DefaultNamespace, "url", func(o map[string]any) (form.Constraint, error) {
		return form.URL{Message: optString(o, "message")}, nil
	})
	r.RegisterConstraint(DefaultNamespace, "is-true", func(o map[string]any) (form.Constraint, error) {
		return form.IsTrue{Message: optString(o, "message")}, nil
	})
	r.RegisterConstraint(DefaultNamespace, "length", newLength)
	r.RegisterConstraint(DefaultNamespace, "range", newRange)
	r.RegisterConstraint(DefaultNamespace, "regex", newRegex)
	r.RegisterConstraint(DefaultNamespace, "choice", newChoice)
	r.RegisterConstraint(DefaultNamespace, "equal-to", func(o map[string]any) (form.Constraint, error) {
		return form.EqualTo{Value: optString(o, "value", "default"), Message: optString(o, "message")}, nil
	})
	r.RegisterConstraint(DefaultNamespace, "not-equal-to", func(o map[string]any) (form.Constraint, error) {
		return form.NotEqualTo{Value: optString(o, "value", "default"), Message: optString(o, "message")}, nil
	})

	r.RegisterCondition(DefaultNamespace, "in", func(field string, values []string) (form.Condition, error) {
		return form.InCondition{Field: field, Values: values}, nil
	})
	r.RegisterCondition(DefaultNamespace, "not-in", func(field string, values []string) (form.Condition, error) {
		return form.NotInCondition{Field: field, Values: values}, nil
	})
	r.RegisterCondition(DefaultNamespace, "blank", func(field string, _ []string) (form.Condition, error) {
		return form.BlankCondition{Field: field}, nil
	})
	r.RegisterCondition(DefaultNamespace, "not-blank", func(field string, _ []string) (form.Condition, error) {
		return form.NotBlankCondition{Field: field}, nil
	})
}

// optString returns the first non-empty string option among keys. Each key is
// also tried in camelCase, so "min-message" matches "minMessage".
func optString(o map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := lookup(o, k); ok {
			if s := cast.ToString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func lookup(o map[string]any, key string) (any, bool) {
	if v, ok := o[key]; ok {
		return v, true
	}
	if !strings.Contains(key, "-") {
		return nil, false
	}
	studly := StudlyCaps(key)
	v, ok := o[strings.ToLower(studly[:1])+studly[1:]]
	return v, ok
}

func newLength(o map[string]any) (form.Constraint, error) {
	c := form.Length{
		MinMessage:   optString(o, "min-message", "message"),
		MaxMessage:   optString(o, "max-message", "message"),
		ExactMessage: optString(o, "exact-message", "message"),
	}
	if v, ok := lookup(o, "min"); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: length min: %w", ErrInvalidDefinition, err)
		}
		c.Min = &n
	}
	if v, ok := lookup(o, "max"); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: length max: %w", ErrInvalidDefinition, err)
		}
		c.Max = &n
	}
	if c.Min == nil && c.Max == nil {
		return nil, fmt.Errorf("%w: length needs min or max", ErrInvalidDefinition)
	}
	return c, nil
}

func newRange(o map[string]any) (form.Constraint, error) {
	c := form.Range{
		MinMessage:     optString(o, "min-message", "message"),
		MaxMessage:     optString(o, "max-message", "message"),
		InvalidMessage: optString(o, "invalid-message"),
	}
	if v, ok := lookup(o, "min"); ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("%w: range min: %w", ErrInvalidDefinition, err)
		}
		c.Min = &f
	}
	if v, ok := lookup(o, "max"); ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("%w: range max: %w", ErrInvalidDefinition, err)
		}
		c.Max = &f
	}
	if c.Min == nil && c.Max == nil {
		return nil, fmt.Errorf("%w: range needs min or max", ErrInvalidDefinition)
	}
	return c, nil
}

// delimited matches "/body/flags" patterns as written for PCRE.
var delimited = regexp.MustCompile(`^/(.*)/([imsU]*)$`)

func newRegex(o map[string]any) (form.Constraint, error) {
	pattern := optString(o, "pattern", "default")
	if pattern == "" {
		return nil, fmt.Errorf("%w: regex needs a pattern", ErrInvalidDefinition)
	}
	if m := delimited.FindStringSubmatch(pattern); m != nil {
		pattern = m[1]
		if m[2] != "" {
			pattern = "(?" + m[2] + ")" + pattern
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: regex: %w", ErrInvalidDefinition, err)
	}
	match := true
	if v, ok := lookup(o, "match"); ok {
		match = cast.ToBool(v)
	}
	return form.Regex{Pattern: re, Match: match, Message: optString(o, "message")}, nil
}

func newChoice(o map[string]any) (form.Constraint, error) {
	raw, ok := lookup(o, "choices")
	if !ok {
		raw, ok = o["default"]
	}
	if !ok {
		return nil, fmt.Errorf("%w: choice needs choices", ErrInvalidDefinition)
	}
	return form.Choice{
		Choices:         cast.ToStringSlice(raw),
		Multiple:        cast.ToBool(o["multiple"]),
		Message:         optString(o, "message"),
		MultipleMessage: optString(o, "multiple-message"),
	}, nil
}
