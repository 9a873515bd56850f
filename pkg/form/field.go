package form

import (
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Field types understood by the builder's default namespace.
const (
	TypeInput      = "input"
	TypeTextarea   = "textarea"
	TypeSelect     = "select"
	TypeCheckbox   = "checkbox"
	TypeCheckboxes = "checkboxes"
	TypeRadios     = "radios"
	TypeHidden     = "hidden"
)

// Option is a selectable value of a select, radios or checkboxes field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is a single form input.
type Field struct {
	Value       any
	Default     any
	settings    map[string]any
	Name        string
	Type        string
	Label       string
	markers     []string
	constraints []*ConditionalConstraint
	errors      []string
	Options     []Option
	Multiple    bool
}

// NewField creates a field of the given type.
func NewField(name, typ string) *Field {
	return &Field{
		Name:     name,
		Type:     typ,
		settings: make(map[string]any),
	}
}

// IsArrayValue reports whether the field submits a list of values.
func (f *Field) IsArrayValue() bool {
	switch f.Type {
	case TypeCheckboxes:
		return true
	case TypeSelect:
		return f.Multiple
	}
	return false
}

// LabelMarkers returns the markers attached to the label.
func (f *Field) LabelMarkers() []string {
	return f.markers
}

// LabelMarkerText joins the markers, each preceded by sep. An empty sep means
// a single space. Returns "" when there are no markers.
func (f *Field) LabelMarkerText(sep string) string {
	if len(f.markers) == 0 {
		return ""
	}
	if sep == "" {
		sep = " "
	}
	return sep + strings.Join(f.markers, sep)
}

// AddLabelMarker inserts a marker at index, or appends when index is out of range.
func (f *Field) AddLabelMarker(marker string, index int) {
	if index < 0 || index >= len(f.markers) {
		f.markers = append(f.markers, marker)
		return
	}
	f.markers = slices.Insert(f.markers, index, marker)
}

// RemoveLabelMarker removes every occurrence of marker.
func (f *Field) RemoveLabelMarker(marker string) {
	f.markers = slices.DeleteFunc(f.markers, func(m string) bool { return m == marker })
}

// ConditionalConstraints returns the field's constraints.
func (f *Field) ConditionalConstraints() []*ConditionalConstraint {
	return f.constraints
}

// AddConditionalConstraint inserts a constraint at index, or appends when index
// is out of range.
func (f *Field) AddConditionalConstraint(cc *ConditionalConstraint, index int) {
	if index < 0 || index >= len(f.constraints) {
		f.constraints = append(f.constraints, cc)
		return
	}
	f.constraints = slices.Insert(f.constraints, index, cc)
}

// RemoveConditionalConstraint removes cc if present.
func (f *Field) RemoveConditionalConstraint(cc *ConditionalConstraint) {
	f.constraints = slices.DeleteFunc(f.constraints, func(c *ConditionalConstraint) bool { return c == cc })
}

// Errors returns the error messages currently attached to the field.
func (f *Field) Errors() []string {
	return f.errors
}

// SetErrors replaces the field's error messages.
func (f *Field) SetErrors(errs []string) {
	f.errors = slices.Clone(errs)
}

// Setting returns a setting value or def when unset.
func (f *Field) Setting(key string, def any) any {
	if v, ok := f.settings[key]; ok {
		return v
	}
	return def
}

// SetSetting stores a setting value.
func (f *Field) SetSetting(key string, value any) {
	if f.settings == nil {
		f.settings = make(map[string]any)
	}
	f.settings[key] = value
}

// Settings returns a copy of all settings.
func (f *Field) Settings() map[string]any {
	return maps.Clone(f.settings)
}

// IsBlank reports whether v counts as an empty submission: nil, an empty or
// whitespace-only string, or an empty list.
func IsBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	return false
}

// Strings flattens a submitted value to a list of strings.
func Strings(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, cast.ToString(item))
		}
		return out
	}
	return []string{cast.ToString(v)}
}
