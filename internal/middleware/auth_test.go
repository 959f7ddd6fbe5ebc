package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"comic-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubResolver map[string]string

func (s stubResolver) Resolve(_ context.Context, token string) (*session.Session, error) {
	userID, ok := s[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &session.Session{SessionID: "sid", UserID: userID}, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/me", GinRequireAuth(NewAuthMiddleware(stubResolver{"good": "user-1"})), func(c *gin.Context) {
		fromCtx, _ := UserIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"ctx": fromCtx, "key": c.GetString("userID")})
	})
	return r
}

func TestGinRequireAuth(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(*http.Request)
		wantCode int
	}{
		{
			name:     "no credentials",
			prepare:  func(*http.Request) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "bearer token",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer good")
			},
			wantCode: http.StatusOK,
		},
		{
			name: "session cookie",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "good"})
			},
			wantCode: http.StatusOK,
		},
		{
			name: "unknown token",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer bad")
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "non bearer scheme",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic good")
			},
			wantCode: http.StatusUnauthorized,
		},
	}

	router := newTestRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.prepare(req)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"ctx":"user-1","key":"user-1"}`, rec.Body.String())
			} else {
				assert.JSONEq(t, `{"status":401,"message":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}
