package sitegear_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegear/sitegear"
	"github.com/sitegear/sitegear/pkg/cache"
	"github.com/sitegear/sitegear/pkg/session"
)

type stepHandler struct{}

func (stepHandler) Routes(r sitegear.Router) {
	r.GET("/steps/{n}", func(c sitegear.Context) error {
		n := sitegear.Param[int](c, "n")
		if n < 0 {
			return sitegear.ErrBadRequest("negative step")
		}
		sess, err := c.Session()
		if err != nil {
			return err
		}
		sess.SetValue("step", n)
		return c.JSON(http.StatusOK, map[string]int{
			"step": n,
			"page": sitegear.QueryDefault(c, "page", 1),
		})
	})
}

func TestFacade(t *testing.T) {
	t.Parallel()

	mem := cache.NewMemory[[]byte]()
	t.Cleanup(func() { _ = mem.Close() })
	store := session.NewCacheStore(mem)

	app := sitegear.New(
		sitegear.WithSession(store, sitegear.WithSessionCookieName("sg")),
		sitegear.WithHandlers(stepHandler{}),
	)

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/steps/2?page=3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"step":2,"page":3}`, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sg", cookies[0].Name)

	sess, err := store.Load(t.Context(), cookies[0].Value)
	require.NoError(t, err)
	assert.InDelta(t, 2, sitegear.SessionValueOr(sess, "step", 0.0), 0)

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/steps/-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	err := sitegear.ErrUnprocessable("", sitegear.WithDetail("bad patch"))
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Equal(t, "Unprocessable Entity", err.Message)
	assert.Same(t, err, sitegear.AsHTTPError(err))
}
