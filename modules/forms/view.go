package forms

import (
	"context"
	"maps"
	"net/url"
	"strconv"
	"strings"

	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/session"
)

// FieldView is a field as rendered within a fieldset.
type FieldView struct {
	Value        any            `json:"value"`
	Settings     map[string]any `json:"settings,omitempty"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Label        string         `json:"label"`
	LabelMarkers []string       `json:"label_markers,omitempty"`
	Errors       []string       `json:"errors,omitempty"`
	Options      []form.Option  `json:"options,omitempty"`
	Multiple     bool           `json:"multiple,omitempty"`
	ReadOnly     bool           `json:"read_only,omitempty"`
	Wrapped      bool           `json:"wrapped"`
}

// FieldsetView is a fieldset of the current step.
type FieldsetView struct {
	Heading string      `json:"heading,omitempty"`
	Fields  []FieldView `json:"fields"`
}

// View is what the form component renders: the current step with values
// and errors applied.
type View struct {
	Values       map[string]any            `json:"values"`
	Errors       form.Errors               `json:"errors"`
	Buttons      map[string]map[string]any `json:"buttons"`
	Key          string                    `json:"key"`
	SubmitURL    string                    `json:"submit_url"`
	Method       string                    `json:"method"`
	CancelURL    string                    `json:"cancel_url,omitempty"`
	Heading      string                    `json:"heading,omitempty"`
	ErrorHeading string                    `json:"error_heading,omitempty"`
	Fieldsets    []FieldsetView            `json:"fieldsets"`
	Messages     []engine.Message          `json:"messages,omitempty"`
	Step         int                       `json:"step"`
	StepCount    int                       `json:"step_count"`
	OneWay       bool                      `json:"one_way"`
}

// View renders the current step. values and errs override the stored ones
// for this rendering only. Stored errors and queued page messages are
// cleared once read.
func (m *Module) View(ctx context.Context, s session.Accessor, key, formURL string, values map[string]any, errs form.Errors) (*View, error) {
	f, err := m.Form(ctx, key, s, formURL)
	if err != nil {
		return nil, err
	}
	st := NewState(s)
	p := st.Progress(key).Normalize(f.StepCount())
	step, err := f.Step(p.Current)
	if err != nil {
		return nil, err
	}

	v := &View{
		Key:          key,
		SubmitURL:    f.SubmitURL,
		Method:       f.Method(),
		CancelURL:    f.CancelURL,
		Heading:      step.Heading,
		ErrorHeading: step.ErrorHeading,
		Step:         p.Current,
		StepCount:    f.StepCount(),
		OneWay:       step.OneWay,
		Values:       st.Values(key),
		Errors:       st.Errors(key).Merge(errs),
		Buttons:      make(map[string]map[string]any),
	}
	maps.Copy(v.Values, values)

	if f.SubmitButton != nil {
		v.Buttons["submit"] = maps.Clone(f.SubmitButton)
	}
	if f.ResetButton != nil {
		v.Buttons["reset"] = maps.Clone(f.ResetButton)
	}
	if f.BackButton != nil {
		back := maps.Clone(f.BackButton)
		if !p.CanGoBack() {
			back["disabled"] = "disabled"
		}
		v.Buttons["back"] = back
	}

	for _, fs := range step.Fieldsets() {
		fv := FieldsetView{Heading: fs.Heading}
		for _, ref := range fs.References() {
			field, ok := f.Field(ref.Field)
			if !ok {
				continue
			}
			value, ok := v.Values[field.Name]
			if !ok {
				value = field.Default
			}
			fv.Fields = append(fv.Fields, FieldView{
				Value:        value,
				Settings:     field.Settings(),
				Name:         field.Name,
				Type:         field.Type,
				Label:        field.Label,
				LabelMarkers: field.LabelMarkers(),
				Errors:       v.Errors[field.Name],
				Options:      field.Options,
				Multiple:     field.Multiple,
				ReadOnly:     ref.ReadOnly,
				Wrapped:      ref.Wrapped,
			})
		}
		v.Fieldsets = append(v.Fieldsets, fv)
	}

	st.ClearErrors(key)
	v.Messages = engine.PageMessages(s)
	return v, nil
}

// StepView describes one step for the steps component.
type StepView struct {
	Heading   string `json:"heading,omitempty"`
	JumpURL   string `json:"jump_url,omitempty"`
	Index     int    `json:"index"`
	Current   bool   `json:"current"`
	Available bool   `json:"available"`
}

// StepsView is what the steps component renders. Available steps other
// than the current one carry a jump URL.
type StepsView struct {
	Key            string     `json:"key"`
	JumpURLFormat  string     `json:"jump_url_format"`
	Steps          []StepView `json:"steps"`
	AvailableSteps []int      `json:"available_steps"`
	CurrentStep    int        `json:"current_step"`
}

// Steps lists the form's steps with the visitor's progress.
func (m *Module) Steps(ctx context.Context, s session.Accessor, key, formURL string) (*StepsView, error) {
	f, err := m.Form(ctx, key, s, formURL)
	if err != nil {
		return nil, err
	}
	p := NewState(s).Progress(key).Normalize(f.StepCount())
	jumpBase := m.RouteURL(key, "jump") + "?form-url=" + url.QueryEscape(formURL) + "&step="

	v := &StepsView{
		Key:            key,
		JumpURLFormat:  strings.ReplaceAll(jumpBase, "%", "%%") + "%d",
		AvailableSteps: p.Available,
		CurrentStep:    p.Current,
	}
	for _, step := range f.Steps() {
		sv := StepView{
			Heading:   step.Heading,
			Index:     step.Index(),
			Current:   step.Index() == p.Current,
			Available: p.IsAvailable(step.Index()),
		}
		if sv.Available && !sv.Current {
			sv.JumpURL = jumpBase + strconv.Itoa(step.Index())
		}
		v.Steps = append(v.Steps, sv)
	}
	return v, nil
}
