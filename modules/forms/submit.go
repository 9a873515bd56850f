package forms

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"github.com/sitegear/sitegear/pkg/engine"
	"github.com/sitegear/sitegear/pkg/form"
	"github.com/sitegear/sitegear/pkg/sanitizer"
	"github.com/sitegear/sitegear/pkg/session"
)

// Control keys are stripped from submitted values.
const (
	ControlBack    = "back"
	ControlFormURL = "form-url"
)

// Submission is one post of a form step.
type Submission struct {
	Request *http.Request
	Values  map[string]any
	Key     string
	FormURL string
	Back    bool
}

// Outcome tells the caller where to send the visitor.
type Outcome struct {
	Errors      form.Errors
	RedirectURL string
	Progress    form.Progress
	StatusCode  int
	Complete    bool
}

// Submit runs one transition of the form's state machine.
//
// Back moves to the previous step without validation, provided it is
// reachable. Forward validates the current step against the submitted values;
// when they pass, the step's processors run with all stored values and the
// visitor advances. Passing the last step resets the form and redirects to
// its target URL.
func (m *Module) Submit(ctx context.Context, s session.Accessor, sub Submission) (*Outcome, error) {
	log := m.logger.With(slog.String("form_key", sub.Key))
	st := NewState(s)

	f, err := m.Form(ctx, sub.Key, s, sub.FormURL)
	if err != nil {
		return nil, err
	}
	submitted := sanitizer.Values(stripControl(sub.Values))
	all := st.MergeValues(sub.Key, submitted)
	p := st.Progress(sub.Key).Normalize(f.StepCount())
	out := &Outcome{StatusCode: http.StatusSeeOther, Progress: p}

	if sub.Back {
		next, err := p.Back()
		if err != nil {
			return nil, fmt.Errorf("forms: %s: %w", sub.Key, err)
		}
		st.SetProgress(sub.Key, next)
		out.Progress = next
		out.RedirectURL = returnURL(sub.FormURL)
		log.DebugContext(ctx, "form step back", slog.Int("step", next.Current))
		return out, nil
	}

	step, err := f.Step(p.Current)
	if err != nil {
		return nil, err
	}
	errs := form.Validate(step.EditableFields(), submitted)
	st.SetErrors(sub.Key, errs)
	out.Errors = errs
	if !errs.Empty() {
		out.RedirectURL = returnURL(sub.FormURL)
		log.DebugContext(ctx, "form step invalid", slog.Int("step", p.Current), slog.Int("fields", len(errs)))
		return out, nil
	}

	result, ok, err := m.runProcessors(ctx, s, sub, step, all)
	if err != nil {
		return nil, err
	}
	if ok {
		next, complete := p.Forward(f.StepCount(), step.OneWay)
		out.Progress = next
		out.Complete = complete
		if complete {
			st.Reset(sub.Key)
			log.InfoContext(ctx, "form completed")
		} else {
			st.SetProgress(sub.Key, next)
			log.DebugContext(ctx, "form step advanced", slog.Int("step", next.Current))
		}
	} else {
		out.Errors = st.Errors(sub.Key)
	}

	switch {
	case result != nil && result.RedirectURL != "":
		out.RedirectURL = result.RedirectURL
		if result.StatusCode != 0 {
			out.StatusCode = result.StatusCode
		}
	case out.Complete && f.TargetURL != "":
		out.RedirectURL = siteURL(f.TargetURL)
	default:
		out.RedirectURL = returnURL(sub.FormURL)
	}
	return out, nil
}

// runProcessors runs the step's processors in order. The first processor
// returning a result stops the rest. ok is false when a processor failed
// under the message or fail policy.
func (m *Module) runProcessors(ctx context.Context, s session.Accessor, sub Submission, step *form.Step, values map[string]any) (*form.Result, bool, error) {
	ok := true
	var result *form.Result
	for _, p := range step.Processors() {
		if result != nil {
			break
		}
		if !p.ShouldExecute(values) {
			continue
		}
		res, err := p.Func(ctx, form.Call{
			Request:   sub.Request,
			Values:    maps.Clone(values),
			Arguments: p.Arguments,
			FormKey:   sub.Key,
		})
		if err == nil {
			result = res
			continue
		}

		m.logger.WarnContext(ctx, "form processor failed",
			slog.String("form_key", sub.Key),
			slog.String("processor", p.Name()),
			slog.String("action", string(p.Action())),
			slog.String("error", err.Error()))

		switch p.Action() {
		case form.ExceptionMessage:
			if len(p.ExceptionFieldNames) > 0 {
				st := NewState(s)
				for _, field := range p.ExceptionFieldNames {
					st.AddFieldError(sub.Key, field, err.Error())
				}
			} else {
				engine.AddPageMessage(s, engine.MessageError, err.Error())
			}
			ok = false
		case form.ExceptionFail:
			ok = false
		case form.ExceptionIgnore:
		default:
			return nil, false, fmt.Errorf("forms: processor %s: %w", p.Name(), err)
		}
	}
	return result, ok, nil
}

// Initialise resets the form and seeds its values from query parameters
// naming its fields.
func (m *Module) Initialise(ctx context.Context, s session.Accessor, key, formURL string, query url.Values) error {
	st := NewState(s)
	st.Reset(key)

	f, err := m.Form(ctx, key, s, formURL)
	if err != nil {
		return err
	}
	values := make(map[string]any)
	for name, vals := range query {
		if name == ControlFormURL || len(vals) == 0 {
			continue
		}
		field, ok := f.Field(name)
		if !ok {
			continue
		}
		if field.IsArrayValue() {
			values[name] = toAnySlice(vals)
		} else {
			values[name] = vals[0]
		}
	}
	st.SetValues(key, sanitizer.Values(values))
	m.logger.DebugContext(ctx, "form initialised", slog.String("form_key", key), slog.Int("values", len(values)))
	return nil
}

// Jump moves the visitor to step. A nil step means the current step.
func (m *Module) Jump(ctx context.Context, s session.Accessor, key, formURL string, step *int) (form.Progress, error) {
	f, err := m.Form(ctx, key, s, formURL)
	if err != nil {
		return form.Progress{}, err
	}
	st := NewState(s)
	p := st.Progress(key).Normalize(f.StepCount())
	target := p.Current
	if step != nil {
		target = *step
	}
	next, err := p.Jump(target, f.StepCount())
	if err != nil {
		return p, fmt.Errorf("forms: %s: %w", key, err)
	}
	st.SetProgress(key, next)
	return next, nil
}

// stripControl drops control keys from submitted values.
func stripControl(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if k == ControlBack || k == ControlFormURL {
			continue
		}
		out[k] = v
	}
	return out
}

// returnURL accepts only site-relative URLs. Anything else returns to the
// home page.
func returnURL(formURL string) string {
	if formURL == "" || !strings.HasPrefix(formURL, "/") || strings.HasPrefix(formURL, "//") {
		return "/"
	}
	u, err := url.Parse(formURL)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return formURL
}

// siteURL resolves a target URL against the site root.
func siteURL(target string) string {
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}
	return "/" + strings.TrimLeft(target, "/")
}

func toAnySlice(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
