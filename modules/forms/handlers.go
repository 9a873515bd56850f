package forms

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sitegear/sitegear"
	"github.com/sitegear/sitegear/pkg/form"
)

const maxPatchBytes = 1 << 20

// Routes mounts the form routes under Mount():
//
//	GET|POST /{key}             submit the current step
//	GET      /{key}/jump        jump to ?step=
//	GET      /{key}/initialise  reset and seed values from the query
//	GET      /{key}/view        current step as JSON
//	GET      /{key}/steps       steps with progress as JSON
//	PATCH    /{key}/values      apply a JSON patch to stored values
//
// Every route takes the page hosting the form as ?form-url=.
func (m *Module) Routes(r sitegear.Router) {
	r.Route(m.Mount(), func(r sitegear.Router) {
		r.GET("/{key}", m.handleSubmit)
		r.POST("/{key}", m.handleSubmit)
		r.GET("/{key}/jump", m.handleJump)
		r.GET("/{key}/initialise", m.handleInitialise)
		r.GET("/{key}/view", m.handleView)
		r.GET("/{key}/steps", m.handleSteps)
		r.PATCH("/{key}/values", m.handlePatchValues)
	})
}

func (m *Module) handleSubmit(c sitegear.Context) error {
	s, err := c.Session()
	if err != nil {
		return err
	}
	values, err := submittedValues(c.Request())
	if err != nil {
		return sitegear.ErrBadRequest("malformed form data", sitegear.WithError(err))
	}
	_, back := values[ControlBack]

	out, err := m.Submit(c, s, Submission{
		Request: c.Request(),
		Values:  values,
		Key:     c.Param("key"),
		FormURL: c.Query(ControlFormURL),
		Back:    back,
	})
	if err != nil {
		return httpError(err)
	}
	return c.Redirect(out.StatusCode, out.RedirectURL)
}

func (m *Module) handleJump(c sitegear.Context) error {
	s, err := c.Session()
	if err != nil {
		return err
	}
	step, ok, err := sitegear.QueryValue[int](c, "step")
	if err != nil {
		return httpError(ErrInvalidStep)
	}
	var target *int
	if ok {
		target = &step
	}
	formURL := c.Query(ControlFormURL)
	if _, err := m.Jump(c, s, c.Param("key"), formURL, target); err != nil {
		return httpError(err)
	}
	return c.Redirect(http.StatusSeeOther, returnURL(formURL))
}

func (m *Module) handleInitialise(c sitegear.Context) error {
	s, err := c.Session()
	if err != nil {
		return err
	}
	formURL := c.Query(ControlFormURL)
	if err := m.Initialise(c, s, c.Param("key"), formURL, c.Request().URL.Query()); err != nil {
		return httpError(err)
	}
	return c.Redirect(http.StatusSeeOther, returnURL(formURL))
}

func (m *Module) handleView(c sitegear.Context) error {
	s, err := c.Session()
	if err != nil {
		return err
	}
	v, err := m.View(c, s, c.Param("key"), c.Query(ControlFormURL), nil, nil)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (m *Module) handleSteps(c sitegear.Context) error {
	s, err := c.Session()
	if err != nil {
		return err
	}
	v, err := m.Steps(c, s, c.Param("key"), c.Query(ControlFormURL))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (m *Module) handlePatchValues(c sitegear.Context) error {
	s, err := c.Session()
	if err != nil {
		return err
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxPatchBytes))
	if err != nil {
		return sitegear.ErrBadRequest("unreadable patch", sitegear.WithError(err))
	}
	key := c.Param("key")
	if _, err := m.Form(c, key, s, c.Query(ControlFormURL)); err != nil {
		return httpError(err)
	}
	st := NewState(s)
	if err := st.PatchValues(key, body); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, st.Values(key))
}

// submittedValues reads the query for GET and the body for everything else.
// Keys ending in "[]" and keys given more than once become lists.
func submittedValues(r *http.Request) (map[string]any, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	src := r.PostForm
	if r.Method == http.MethodGet {
		src = r.URL.Query()
	}
	values := make(map[string]any, len(src))
	for name, vals := range src {
		list := strings.HasSuffix(name, "[]")
		name = strings.TrimSuffix(name, "[]")
		switch {
		case list || len(vals) > 1:
			values[name] = toAnySlice(vals)
		case len(vals) == 1:
			values[name] = vals[0]
		}
	}
	return values, nil
}

// httpError maps module errors to HTTP errors. Anything unmapped is
// returned as is and reported as 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrFormNotFound):
		return sitegear.ErrNotFound("form not found", sitegear.WithError(err))
	case errors.Is(err, form.ErrStepOutOfRange), errors.Is(err, form.ErrStepNotAvailable):
		return sitegear.ErrBadRequest("step not available", sitegear.WithError(err))
	case errors.Is(err, ErrInvalidStep):
		return sitegear.ErrBadRequest("invalid step", sitegear.WithError(err))
	case errors.Is(err, ErrInvalidPatch):
		return sitegear.ErrUnprocessable("invalid patch", sitegear.WithError(err))
	}
	return err
}
