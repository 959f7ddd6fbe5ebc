package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"comic-service/internal/session"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// WithUserID attaches an authenticated user ID to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// SessionResolver turns an access token into its live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

type AuthMiddleware struct {
	Sessions SessionResolver
}

func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions}
}

// TokenFromRequest reads the access token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	return session.TokenFromCookie(r)
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			unauthorized(w)
			return
		}

		// Resolve enforces signature, store presence and expiry
		sess, err := a.Sessions.Resolve(r.Context(), token)
		if err != nil || sess == nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), sess.UserID)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  http.StatusUnauthorized,
		"message": "unauthorized",
	})
}
