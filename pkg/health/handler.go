package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler reports that the process is serving requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks on every request. A failure answers 503 with
// an "error" message, as the app's error responses carry, next to the
// per-check breakdown.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)
		if err := resp.Err(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, &failure{
				Response: resp,
				Message:  err.Error(),
				Code:     http.StatusServiceUnavailable,
			})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// failure is an unhealthy readiness body.
type failure struct {
	*Response
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
