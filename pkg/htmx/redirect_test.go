package htmx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitegear/sitegear/pkg/htmx"
)

func TestRedirectWithStatus(t *testing.T) {
	t.Parallel()

	t.Run("htmx request gets HX-Redirect", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/forms/enquiry", nil)
		req.Header.Set("HX-Request", "true")

		htmx.RedirectWithStatus(rec, req, "/thanks", http.StatusSeeOther)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/thanks", rec.Header().Get("HX-Redirect"))
		assert.Empty(t, rec.Header().Get("Location"))
	})

	t.Run("regular request keeps status", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/forms/enquiry", nil)

		htmx.RedirectWithStatus(rec, req, "/thanks", http.StatusSeeOther)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/thanks", rec.Header().Get("Location"))
		assert.Empty(t, rec.Header().Get("HX-Redirect"))
	})
}
