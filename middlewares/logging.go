package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sitegear/sitegear/internal"
)

// AccessLog logs one line per request after the handler returns. Requests
// answering 5xx log at error level, 4xx at warn.
func AccessLog() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)

			status := http.StatusOK
			var size int64
			if rw, ok := c.Response().(*internal.ResponseWriter); ok {
				status = rw.Status()
				size = rw.Size()
			}
			if he := internal.AsHTTPError(err); he != nil && !c.Written() {
				status = he.Code
			} else if err != nil && !c.Written() {
				status = http.StatusInternalServerError
			}

			attrs := []any{
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", status),
				slog.Int64("size", size),
				slog.Duration("duration", time.Since(start)),
			}
			switch {
			case status >= http.StatusInternalServerError:
				c.LogError("request", attrs...)
			case status >= http.StatusBadRequest:
				c.LogWarn("request", attrs...)
			default:
				c.LogInfo("request", attrs...)
			}
			return err
		}
	}
}
