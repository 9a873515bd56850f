package middlewares_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear/internal"
	"github.com/sitegear/sitegear/middlewares"
	"github.com/sitegear/sitegear/pkg/logger"
)

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	app := internal.New(
		internal.WithMiddleware(middlewares.RequestID(
			middlewares.WithRequestIDGenerator(func() string { return "generated" }),
		)),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				seen = middlewares.GetRequestID(c)
				return c.NoContent(http.StatusOK)
			})
		})),
	)

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "generated", want: "generated"},
		{name: "upstream", headers: map[string]string{"X-Request-ID": "abc"}, want: "abc"},
		{name: "correlation", headers: map[string]string{"X-Correlation-ID": "corr"}, want: "corr"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range tt.headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		app.ServeHTTP(w, req)
		assert.Equal(t, tt.want, seen, tt.name)
		assert.Equal(t, tt.want, w.Header().Get("X-Request-ID"), tt.name)
	}
}

func TestRequestID_DefaultGenerator(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithMiddleware(middlewares.RequestID(middlewares.WithRequestIDResponseHeader("X-Trace"))),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { return c.NoContent(http.StatusOK) })
		})),
	)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Trace"), 36)
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf}, middlewares.RequestIDExtractor())

	app := internal.New(
		internal.WithLogger(log),
		internal.WithMiddleware(middlewares.RequestID()),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				c.LogInfo("handled")
				return c.NoContent(http.StatusOK)
			})
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	app.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])

	_, ok := middlewares.RequestIDExtractor()(context.Background())
	assert.False(t, ok)
}

func TestRecover(t *testing.T) {
	t.Parallel()

	var captured error
	app := internal.New(
		internal.WithMiddleware(middlewares.Recover(middlewares.WithRecoverStackSize(1024))),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			captured = err
			return internal.DefaultErrorHandler(c, err)
		}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { panic("boom") })
		})),
	)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	require.True(t, middlewares.IsPanicError(captured))
	pe, ok := middlewares.AsPanicError(captured)
	require.True(t, ok)
	assert.Equal(t, "boom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.LessOrEqual(t, len(pe.Stack), 1024)
	assert.Equal(t, "panic: boom", pe.Error())
}

func TestRecover_DisablePrintStack(t *testing.T) {
	t.Parallel()

	var captured error
	app := internal.New(
		internal.WithMiddleware(middlewares.Recover(middlewares.WithRecoverDisablePrintStack())),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			captured = err
			return c.NoContent(http.StatusInternalServerError)
		}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error { panic(42) })
		})),
	)

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	pe, ok := middlewares.AsPanicError(captured)
	require.True(t, ok)
	assert.Nil(t, pe.Stack)
	assert.Equal(t, 42, pe.Value)
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	app := internal.New(
		internal.WithLogger(log),
		internal.WithMiddleware(middlewares.AccessLog()),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/ok", func(c internal.Context) error { return c.String(http.StatusOK, "fine") })
			r.GET("/bad", func(c internal.Context) error { return internal.ErrBadRequest("bad step") })
		})),
	)

	tests := []struct {
		path   string
		status float64
		level  string
	}{
		{path: "/ok", status: 200, level: "INFO"},
		{path: "/bad", status: 400, level: "WARN"},
	}
	for _, tt := range tests {
		buf.Reset()
		app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), tt.path)
		assert.Equal(t, tt.level, entry["level"], tt.path)
		assert.Equal(t, tt.status, entry["status"], tt.path)
		assert.Equal(t, tt.path, entry["path"], tt.path)
	}
}
