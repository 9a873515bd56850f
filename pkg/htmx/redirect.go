package htmx

import (
	"net/http"
)

// RedirectWithStatus redirects with status for regular requests. HTMX
// requests get a 200 with HX-Redirect so the client navigates instead of
// swapping the target page into the form.
func RedirectWithStatus(w http.ResponseWriter, r *http.Request, targetURL string, status int) {
	if IsHTMX(r) {
		w.Header().Set(HeaderHXRedirect, targetURL)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, targetURL, status)
}
