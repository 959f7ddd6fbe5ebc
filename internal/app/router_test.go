package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"comic-service/internal/account"
	"comic-service/internal/account/apiclient"
	"comic-service/internal/auth"
	"comic-service/internal/auth/provider"
	"comic-service/internal/config"
	"comic-service/internal/credstore"
	"comic-service/internal/history"
	"comic-service/internal/session"
	"comic-service/internal/signin"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider accepts the id_tokens "valid" and "unverified".
type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) AuthCodeURL(state, challenge string) string {
	return "https://idp.test/auth?state=" + state + "&code_challenge=" + challenge
}

func (stubProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, error) {
	return nil, errors.New("not supported")
}

func (stubProvider) VerifyIDToken(_ context.Context, raw string) (*auth.Identity, error) {
	if raw != "valid" && raw != "unverified" {
		return nil, errors.New("bad token")
	}
	return &auth.Identity{
		Provider:      "stub",
		Email:         "native@example.com",
		EmailVerified: raw == "valid",
		DisplayName:   "Native Reader",
		IDToken:       raw,
	}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *apiclient.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		TokenSecret:          "test-secret",
		SessionTTL:           time.Hour,
		BridgePasswordPrefix: signin.DefaultPasswordPrefix,
	}
	infra := &Infra{
		Accounts: account.NewMemoryStore(),
		History:  history.NewMemoryStore(),
		Sessions: session.NewMemoryStore(),
	}

	srv := httptest.NewServer(NewRouter(cfg, NewServices(infra, cfg, provider.NewRegistry(stubProvider{}))))
	t.Cleanup(srv.Close)

	return srv, apiclient.New(srv.URL, srv.Client())
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestFederatedSignIn_OverHTTP(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	id := auth.Identity{Provider: "google", Email: "reader@example.com", DisplayName: "Comic Reader"}

	// first sign-in registers the bridged account
	r := signin.NewReconciler(client, credstore.NewMemoryStore(), nil)
	st, err := r.SignIn(ctx, id)
	require.NoError(t, err)
	require.True(t, st.Authenticated, st.Err)

	profile, err := client.Profile(ctx, st.Token)
	require.NoError(t, err)
	assert.Equal(t, "reader", profile.UserName)
	assert.Equal(t, "Comic Reader", profile.FullName)

	// second sign-in logs in to the existing account
	st, err = r.SignIn(ctx, id)
	require.NoError(t, err)
	require.True(t, st.Authenticated, st.Err)

	// a drifted password is repaired
	require.NoError(t, client.UpdatePassword(ctx, account.UpdatePasswordRequest{
		Email:       "reader@example.com",
		NewPassword: "changed-elsewhere",
	}))
	st, err = r.SignIn(ctx, id)
	require.NoError(t, err)
	require.True(t, st.Authenticated, st.Err)

	// logout revokes the token
	require.NoError(t, client.Logout(ctx, st.Token))
	_, err = client.Profile(ctx, st.Token)
	var apiErr *account.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestRegisterConflictAndLoginFailure(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	req := account.RegisterRequest{Email: "a@example.com", Password: "password-1"}
	require.NoError(t, client.RegisterUser(ctx, req))

	err := client.RegisterUser(ctx, req)
	var apiErr *account.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "account already exists", apiErr.Message)

	_, err = client.LoginUser(ctx, "a@example.com", "wrong-password")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	p, err := client.FindUserByEmail(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestIDTokenSignIn(t *testing.T) {
	srv, client := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/auth/idtoken/stub", "", gin.H{"idToken": "valid"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data account.AuthData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	require.NotEmpty(t, data.Token)

	profile, err := client.Profile(context.Background(), data.Token)
	require.NoError(t, err)
	assert.Equal(t, "native@example.com", profile.Email)
	assert.Equal(t, "Native Reader", profile.FullName)

	resp = doJSON(t, srv, http.MethodPost, "/api/auth/idtoken/stub", "", gin.H{"idToken": "forged"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodPost, "/api/auth/idtoken/github", "", gin.H{"idToken": "valid"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIDTokenSignIn_UnverifiedEmailIsRejected(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.RegisterUser(ctx, account.RegisterRequest{
		Email:    "native@example.com",
		Password: "owner-password",
	}))

	resp := doJSON(t, srv, http.MethodPost, "/api/auth/idtoken/stub", "", gin.H{"idToken": "unverified"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body account.APIError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "email not verified", body.Message)

	// the owner's password was not repaired away
	_, err := client.LoginUser(ctx, "native@example.com", "owner-password")
	assert.NoError(t, err)
}

func TestOAuthLoginRedirectsWithStateAndPKCE(t *testing.T) {
	srv, _ := newTestServer(t)

	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Get(srv.URL + "/oauth/login/stub")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "https://idp.test/auth?state=")

	names := map[string]bool{}
	for _, c := range resp.Cookies() {
		names[c.Name] = true
	}
	assert.True(t, names["__oauth_state"])
	assert.True(t, names["__oauth_pkce"])
}

func TestHistoryRoutes(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, client.RegisterUser(ctx, account.RegisterRequest{
		Email:    "h@example.com",
		Password: "password-1",
	}))
	data, err := client.LoginUser(ctx, "h@example.com", "password-1")
	require.NoError(t, err)
	token := data.Token

	resp := doJSON(t, srv, http.MethodGet, "/api/history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	for _, ch := range []string{"ch-1", "ch-2"} {
		resp = doJSON(t, srv, http.MethodPost, "/api/history", token, history.AddRequest{
			ComicID:   "comic-1",
			ChapterID: ch,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		time.Sleep(2 * time.Millisecond)
	}

	resp = doJSON(t, srv, http.MethodPost, "/api/history", token, history.AddRequest{ComicID: "comic-1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var latest struct {
		Data history.Entry `json:"data"`
	}
	resp = doJSON(t, srv, http.MethodGet, "/api/history/comics/comic-1/latest", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&latest))
	assert.Equal(t, "ch-2", latest.Data.ChapterID)

	var chapters struct {
		Data []history.Entry `json:"data"`
	}
	resp = doJSON(t, srv, http.MethodGet, "/api/history/comics/comic-1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&chapters))
	require.Len(t, chapters.Data, 2)

	resp = doJSON(t, srv, http.MethodDelete, "/api/history/"+latest.Data.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodDelete, "/api/history/"+latest.Data.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodDelete, "/api/history/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodGet, "/api/history/comics/unknown/latest", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
