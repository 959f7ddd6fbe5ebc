package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCookie_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, "tok", time.Now().Add(time.Hour), CookieOptions{Secure: true, SameSite: http.SameSiteLaxMode})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	assert.Equal(t, "tok", TokenFromCookie(req))
}

func TestClearCookie_Expires(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearCookie(rec, CookieOptions{})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)

	assert.Empty(t, TokenFromCookie(httptest.NewRequest(http.MethodGet, "/", nil)))
}
