package session

import (
	"net/http"
	"time"
)

// CookieName carries the access token for browser clients. The __Host-
// prefix pins it to Path=/ with no Domain.
const CookieName = "__Host-session"

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// SetCookie issues the token cookie, expiring with the session.
func SetCookie(w http.ResponseWriter, token string, expiresAt time.Time, opts CookieOptions) {
	writeCookie(w, token, expiresAt, 0, opts)
}

// ClearCookie removes the token cookie from the client.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	writeCookie(w, "", time.Time{}, -1, opts)
}

// TokenFromCookie returns the token cookie value, or "" when absent.
func TokenFromCookie(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func writeCookie(w http.ResponseWriter, value string, expiresAt time.Time, maxAge int, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
