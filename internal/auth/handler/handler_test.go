package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"comic-service/internal/auth"
	"comic-service/internal/auth/provider"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type exchangeProvider struct{}

func (exchangeProvider) Name() string { return "idp" }

func (exchangeProvider) AuthCodeURL(state, challenge string) string {
	return "https://idp.test/auth"
}

func (exchangeProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, error) {
	return nil, errors.New("exchange refused")
}

func (exchangeProvider) VerifyIDToken(context.Context, string) (*auth.Identity, error) {
	return nil, errors.New("not supported")
}

func newCallbackRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandler(nil, nil, nil, provider.NewRegistry(exchangeProvider{}), Options{})
	r := gin.New()
	r.GET("/oauth/callback/:provider", h.callback)
	return r
}

func TestCallback_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		cookies  []*http.Cookie
		wantCode int
		wantBody string
	}{
		{
			name:     "unknown provider",
			url:      "/oauth/callback/github?state=s",
			wantCode: http.StatusBadRequest,
			wantBody: `{"status":400,"message":"unknown oauth provider"}`,
		},
		{
			name:     "state mismatch",
			url:      "/oauth/callback/idp?state=s&code=c",
			cookies:  []*http.Cookie{{Name: stateCookieName, Value: "other"}},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"status":401,"message":"invalid state"}`,
		},
		{
			name:     "provider error",
			url:      "/oauth/callback/idp?state=s&error=access_denied",
			cookies:  []*http.Cookie{{Name: stateCookieName, Value: "s"}},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"status":401,"message":"access_denied"}`,
		},
		{
			name:     "missing pkce verifier",
			url:      "/oauth/callback/idp?state=s&code=c",
			cookies:  []*http.Cookie{{Name: stateCookieName, Value: "s"}},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"status":401,"message":"missing pkce verifier"}`,
		},
		{
			name: "exchange failure",
			url:  "/oauth/callback/idp?state=s&code=c",
			cookies: []*http.Cookie{
				{Name: stateCookieName, Value: "s"},
				{Name: pkceCookieName, Value: "verifier"},
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"status":401,"message":"authentication failed"}`,
		},
	}

	router := newCallbackRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			for _, c := range tt.cookies {
				req.AddCookie(c)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestPKCEChallenge(t *testing.T) {
	assert.Equal(t,
		"azkBOkzdUdvaZ-siKm1sZaeOSWfWdYLzpy9916trN1M",
		pkceChallenge("dBjftJeZ4CVP-mB92K1uvhyYaX1YvhjKVjbHMCtiAgR8"),
	)
}
