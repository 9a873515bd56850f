package internal

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// ContextValue returns the request value under key as T.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param returns a typed route parameter, or the zero value.
func Param[T ~string | ~int | ~int64 | ~bool](c Context, name string) T {
	v, _ := convertParam[T](c.Param(name))
	return v
}

// QueryDefault returns a typed query parameter, or def when it is empty or
// does not parse.
func QueryDefault[T ~string | ~int | ~int64 | ~bool](c Context, name string, def T) T {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	if v, ok := convertParam[T](raw); ok {
		return v
	}
	return def
}

// QueryValue returns a typed query parameter. ok is false when the parameter
// is absent; err is set when it is present but does not parse.
func QueryValue[T ~string | ~int | ~int64 | ~bool](c Context, name string) (v T, ok bool, err error) {
	raw := c.Query(name)
	if raw == "" {
		return v, false, nil
	}
	v, parsed := convertParam[T](raw)
	if !parsed {
		return v, true, fmt.Errorf("invalid value %q for %s", raw, name)
	}
	return v, true, nil
}

func convertParam[T ~string | ~int | ~int64 | ~bool](raw string) (T, bool) {
	var zero T
	var out any
	switch any(zero).(type) {
	case string:
		out = raw
	case int:
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return zero, false
		}
		out = v
	case int64:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return zero, false
		}
		out = v
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		out = v
	default:
		return zero, false
	}
	return out.(T), true
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
