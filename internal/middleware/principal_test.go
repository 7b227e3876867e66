package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukavran/winelabel/internal/auth"
)

func TestRequirePrincipal_NoSessionIsGeneric401(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequirePrincipal(&stubResolver{err: auth.ErrNoSession})(func(c echo.Context) error {
		t.Fatal("handler must not run without a session")
		return nil
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestRequirePrincipal_StoresUserID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen uint64
	h := RequirePrincipal(&stubResolver{sess: &auth.Session{UserID: 42}})(func(c echo.Context) error {
		seen = c.Get(ContextUserID).(uint64)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, uint64(42), seen)
}

func TestRequirePrincipal_PropagatesRotatedCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	rotated := auth.AccessToken{Token: "fresh", Exp: time.Now().Add(time.Minute)}
	h := RequirePrincipal(&stubResolver{sess: &auth.Session{UserID: 42, Rotated: &rotated}})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))

	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == auth.AccessCookie && ck.Value == "fresh" {
			found = true
		}
	}
	assert.True(t, found)
}
