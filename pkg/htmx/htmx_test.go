package htmx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitegear/sitegear/pkg/htmx"
)

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "true", header: "true", want: true},
		{name: "missing", header: "", want: false},
		{name: "false", header: "false", want: false},
		{name: "case sensitive", header: "True", want: false},
		{name: "numeric", header: "1", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/forms/enquiry", nil)
			if tt.header != "" {
				req.Header.Set(htmx.HeaderHXRequest, tt.header)
			}
			assert.Equal(t, tt.want, htmx.IsHTMX(req))
		})
	}
}
