package forms

import (
	"encoding/json"
	"fmt"
	"maps"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/spf13/cast"

	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/sanitizer"
	"github.com/sitegear/sitegear/pkg/session"
)

// Session subkeys under forms.<key>.
const (
	keyCurrentStep    = "current-step"
	keyAvailableSteps = "available-steps"
	keyValues         = "values"
	keyErrors         = "errors"
)

// SessionKey returns the session key of a form partition.
func SessionKey(formKey, subkey string) string {
	return "forms." + formKey + "." + subkey
}

// State reads and writes a visitor's form state in their session. Values are
// read back through cast, so state saved to a remote store (where numbers
// become float64 and lists []any) reads the same as in-memory state.
type State struct {
	s session.Accessor
}

// NewState wraps s.
func NewState(s session.Accessor) *State {
	return &State{s: s}
}

// Values returns a copy of the stored values of a form.
func (st *State) Values(key string) map[string]any {
	v, ok := st.s.GetValue(SessionKey(key, keyValues))
	if !ok {
		return map[string]any{}
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return map[string]any{}
	}
	return maps.Clone(m)
}

// SetValues replaces the stored values of a form with a copy of values.
func (st *State) SetValues(key string, values map[string]any) {
	st.s.SetValue(SessionKey(key, keyValues), maps.Clone(values))
}

// ClearValues removes the stored values of a form.
func (st *State) ClearValues(key string) {
	st.s.DeleteValue(SessionKey(key, keyValues))
}

// FieldValue returns a single stored value.
func (st *State) FieldValue(key, field string) (any, bool) {
	v, ok := st.Values(key)[field]
	return v, ok
}

// SetFieldValue stores a single value, keeping the others.
func (st *State) SetFieldValue(key, field string, value any) {
	values := st.Values(key)
	values[field] = value
	st.SetValues(key, values)
}

// MergeValues overlays values onto the stored values and returns the result.
func (st *State) MergeValues(key string, values map[string]any) map[string]any {
	merged := st.Values(key)
	maps.Copy(merged, values)
	st.SetValues(key, merged)
	return merged
}

// PatchValues applies an RFC 6902 patch to the stored values. The patched
// document must still be an object; string leaves are stripped of markup.
func (st *State) PatchValues(key string, patch []byte) error {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	doc, err := json.Marshal(st.Values(key))
	if err != nil {
		return fmt.Errorf("forms: encode values: %w", err)
	}
	patched, err := p.Apply(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	var values map[string]any
	if err := json.Unmarshal(patched, &values); err != nil || values == nil {
		return fmt.Errorf("%w: values must remain an object", ErrInvalidPatch)
	}
	st.SetValues(key, sanitizer.Values(values))
	return nil
}

// Errors returns a copy of the stored field errors of a form.
func (st *State) Errors(key string) form.Errors {
	out := make(form.Errors)
	v, ok := st.s.GetValue(SessionKey(key, keyErrors))
	if !ok {
		return out
	}
	for field, msgs := range cast.ToStringMap(v) {
		if list := cast.ToStringSlice(msgs); len(list) > 0 {
			out[field] = list
		}
	}
	return out
}

// SetErrors stores errs. Fields without messages are dropped.
func (st *State) SetErrors(key string, errs form.Errors) {
	stored := make(map[string]any, len(errs))
	for field, msgs := range errs {
		if len(msgs) == 0 {
			continue
		}
		list := make([]any, len(msgs))
		for i, m := range msgs {
			list[i] = m
		}
		stored[field] = list
	}
	st.s.SetValue(SessionKey(key, keyErrors), stored)
}

// ClearErrors removes the stored errors of a form.
func (st *State) ClearErrors(key string) {
	st.s.DeleteValue(SessionKey(key, keyErrors))
}

// FieldErrors returns the stored messages of one field.
func (st *State) FieldErrors(key, field string) []string {
	return st.Errors(key)[field]
}

// SetFieldErrors replaces the messages of one field. An empty msgs clears it.
func (st *State) SetFieldErrors(key, field string, msgs []string) {
	errs := st.Errors(key)
	errs[field] = msgs
	st.SetErrors(key, errs)
}

// AddFieldError appends a message to one field's errors.
func (st *State) AddFieldError(key, field, msg string) {
	errs := st.Errors(key)
	errs.Add(field, msg)
	st.SetErrors(key, errs)
}

// ClearFieldErrors removes the messages of one field.
func (st *State) ClearFieldErrors(key, field string) {
	errs := st.Errors(key)
	delete(errs, field)
	st.SetErrors(key, errs)
}

// Progress returns the stored progress, or form.Start() when none is stored.
// Callers normalize it against the form's step count.
func (st *State) Progress(key string) form.Progress {
	cur, ok := st.s.GetValue(SessionKey(key, keyCurrentStep))
	if !ok {
		return form.Start()
	}
	current, err := cast.ToIntE(cur)
	if err != nil {
		return form.Start()
	}
	var avail []int
	if v, ok := st.s.GetValue(SessionKey(key, keyAvailableSteps)); ok {
		avail = cast.ToIntSlice(v)
	}
	return form.Progress{Current: current, Available: avail}
}

// SetProgress stores the current step and the reachable steps.
func (st *State) SetProgress(key string, p form.Progress) {
	avail := make([]any, len(p.Available))
	for i, s := range p.Available {
		avail[i] = s
	}
	st.s.SetValue(SessionKey(key, keyCurrentStep), p.Current)
	st.s.SetValue(SessionKey(key, keyAvailableSteps), avail)
}

// ClearProgress removes the current step and the reachable steps.
func (st *State) ClearProgress(key string) {
	st.s.DeleteValue(SessionKey(key, keyCurrentStep))
	st.s.DeleteValue(SessionKey(key, keyAvailableSteps))
}

// Reset clears progress, values and errors of a form.
func (st *State) Reset(key string) {
	st.ClearProgress(key)
	st.ClearValues(key)
	st.ClearErrors(key)
}
