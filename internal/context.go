package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sitegear/sitegear/pkg/htmx"
	"github.com/sitegear/sitegear/pkg/session"
)

// Context gives handlers access to the request, the response and the
// visitor's session. It is also a context.Context delegating to the request.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns a URL route parameter, or "".
	Param(name string) string

	// Query returns a query parameter, or "".
	Query(name string) string

	// QueryDefault returns a query parameter, or def when it is empty.
	QueryDefault(name, def string) string

	Header(name string) string
	SetHeader(name, value string)

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error
	Redirect(code int, url string) error

	// Error builds an HTTPError to return from the handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Written reports whether the response has started.
	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request's context.Context.
	Set(key, value any)

	// Get reads a value from the request's context.Context.
	Get(key any) any

	// Session returns the visitor's session, creating one when the request
	// carries none. Returns session.ErrNotConfigured without WithSession.
	Session() (*session.Session, error)

	// DestroySession deletes the session and expires its cookie.
	DestroySession() error
}

type contextKey struct{}

type requestContext struct {
	request  *http.Request
	response *ResponseWriter
	app      *App
	session  *session.Session
	flush    sync.Once
}

// contextFor returns the Context stored in r by an outer layer, or creates one.
func (a *App) contextFor(w http.ResponseWriter, r *http.Request) *requestContext {
	if c, ok := r.Context().Value(contextKey{}).(*requestContext); ok {
		c.request = r
		return c
	}
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	c := &requestContext{response: rw, app: a}
	c.request = r.WithContext(context.WithValue(r.Context(), contextKey{}, c))
	return c
}

func (c *requestContext) Request() *http.Request        { return c.request }
func (c *requestContext) Response() http.ResponseWriter { return c.response }
func (c *requestContext) Context() context.Context      { return c.request.Context() }

func (c *requestContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *requestContext) Err() error                  { return c.request.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.request.Context().Value(key) }

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, def string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return def
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.SetHeader("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.SetHeader("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	htmx.RedirectWithStatus(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Session() (*session.Session, error) {
	sm := c.app.sessionManager
	if sm == nil {
		return nil, session.ErrNotConfigured
	}
	if c.session != nil {
		return c.session, nil
	}

	sess, err := sm.Load(c.Context(), c.request)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		if sess, err = sm.Create(c.request); err != nil {
			return nil, err
		}
		sm.WriteCookie(c.response, sess)
	}
	c.session = sess
	c.response.OnBeforeWrite(c.flushSession)
	return sess, nil
}

func (c *requestContext) DestroySession() error {
	sm := c.app.sessionManager
	if sm == nil {
		return session.ErrNotConfigured
	}
	if c.session == nil {
		sess, err := sm.Load(c.Context(), c.request)
		if err != nil {
			return err
		}
		c.session = sess
	}
	err := sm.Destroy(c.Context(), c.response, c.session)
	c.session = nil
	return err
}

// flushSession saves a dirty session once per request. Failures are logged;
// the response is already under way.
func (c *requestContext) flushSession() {
	c.flush.Do(func() {
		if c.session == nil {
			return
		}
		if err := c.app.sessionManager.Save(c.Context(), c.session); err != nil {
			c.LogError("failed to save session", "error", err)
		}
	})
}
