package sitegear

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/sitegear/sitegear/internal"
	"github.com/sitegear/sitegear/pkg/health"
	"github.com/sitegear/sitegear/pkg/logger"
	"github.com/sitegear/sitegear/pkg/session"
)

type (
	// App is the HTTP application: router, middleware and session manager.
	App = internal.App

	// Router is the interface modules use to declare routes.
	Router = internal.Router

	// Context gives handlers the request, the response and the session.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	HandlerFunc  = internal.HandlerFunc
	Middleware   = internal.Middleware
	ErrorHandler = internal.ErrorHandler

	Option        = internal.Option
	RunOption     = internal.RunOption
	HealthOption  = internal.HealthOption
	SessionOption = internal.SessionOption

	// HTTPError is an error that carries an HTTP status.
	HTTPError       = internal.HTTPError
	HTTPErrorOption = internal.HTTPErrorOption

	// ResponseWriter tracks the status and runs hooks before the header is sent.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor pulls a log attribute from a request context.
	ContextExtractor = logger.ContextExtractor

	Session      = session.Session
	SessionStore = session.Store
)

// New creates an App.
//
//	app := sitegear.New(
//	    sitegear.WithLogger(log),
//	    sitegear.WithSession(session.NewCacheStore(cache.NewMemory[[]byte]())),
//	    sitegear.WithHandlers(forms.New(eng)),
//	)
//	err := app.Run(":8080", sitegear.StartupHook(eng.Start), sitegear.ShutdownHook(eng.Stop))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithStaticFiles serves subDir of fsys under pattern.
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithHealthChecks mounts /health/live and /health/ready.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// WithSession enables server-side sessions.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

func WithSessionMaxAge(d time.Duration) SessionOption {
	return internal.WithSessionMaxAge(d)
}

func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Error constructors.
var (
	NewHTTPError          = internal.NewHTTPError
	ErrBadRequest         = internal.ErrBadRequest
	ErrNotFound           = internal.ErrNotFound
	ErrUnprocessable      = internal.ErrUnprocessable
	ErrInternal           = internal.ErrInternal
	ErrServiceUnavailable = internal.ErrServiceUnavailable
	AsHTTPError           = internal.AsHTTPError
	DefaultErrorHandler   = internal.DefaultErrorHandler

	WithDetail    = internal.WithDetail
	WithRequestID = internal.WithRequestID
	WithError     = internal.WithError
)

// ContextValue returns the request value under key as T.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a typed route parameter.
func Param[T ~string | ~int | ~int64 | ~bool](c Context, name string) T {
	return internal.Param[T](c, name)
}

// QueryDefault returns a typed query parameter, or def.
func QueryDefault[T ~string | ~int | ~int64 | ~bool](c Context, name string, def T) T {
	return internal.QueryDefault(c, name, def)
}

// QueryValue returns a typed query parameter and whether it was present.
func QueryValue[T ~string | ~int | ~int64 | ~bool](c Context, name string) (T, bool, error) {
	return internal.QueryValue[T](c, name)
}

// SessionValue reads a typed session value.
func SessionValue[T any](sess *Session, key string) (T, error) {
	return session.Value[T](sess, key)
}

// SessionValueOr reads a typed session value, or def.
func SessionValueOr[T any](sess *Session, key string, def T) T {
	return session.ValueOr(sess, key, def)
}
