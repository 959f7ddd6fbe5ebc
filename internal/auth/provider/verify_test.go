package provider

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"comic-service/internal/auth"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://issuer.test"
	testClientID = "comic-app"
)

func newTestVerifier(t *testing.T) (*rsa.PrivateKey, *oidc.IDTokenVerifier) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	return key, oidc.NewVerifier(testIssuer, keySet, &oidc.Config{ClientID: testClientID})
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func baseClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":            testIssuer,
		"aud":            testClientID,
		"sub":            "google-123",
		"email":          "reader@example.com",
		"email_verified": true,
		"name":           "Comic Reader",
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

func TestVerifyIdentity_MapsClaims(t *testing.T) {
	key, verifier := newTestVerifier(t)
	raw := signIDToken(t, key, baseClaims())

	id, err := VerifyIdentity(context.Background(), verifier, "google", raw)
	require.NoError(t, err)

	assert.Equal(t, "google", id.Provider)
	assert.Equal(t, "google-123", id.ProviderUserID)
	assert.Equal(t, "reader@example.com", id.Email)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, "Comic Reader", id.DisplayName)
	assert.Equal(t, raw, id.IDToken)
}

func TestVerifyIdentity_NameIsOptional(t *testing.T) {
	key, verifier := newTestVerifier(t)
	claims := baseClaims()
	delete(claims, "name")

	id, err := VerifyIdentity(context.Background(), verifier, "google", signIDToken(t, key, claims))
	require.NoError(t, err)
	assert.Empty(t, id.DisplayName)
}

func TestVerifyIdentity_Rejects(t *testing.T) {
	key, verifier := newTestVerifier(t)
	other, _ := newTestVerifier(t)

	tests := []struct {
		name  string
		token func() string
	}{
		{
			name:  "empty",
			token: func() string { return "" },
		},
		{
			name: "wrong audience",
			token: func() string {
				c := baseClaims()
				c["aud"] = "someone-else"
				return signIDToken(t, key, c)
			},
		},
		{
			name: "expired",
			token: func() string {
				c := baseClaims()
				c["exp"] = time.Now().Add(-time.Hour).Unix()
				return signIDToken(t, key, c)
			},
		},
		{
			name: "unknown signing key",
			token: func() string {
				return signIDToken(t, other, baseClaims())
			},
		},
		{
			name: "missing email",
			token: func() string {
				c := baseClaims()
				delete(c, "email")
				return signIDToken(t, key, c)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := VerifyIdentity(context.Background(), verifier, "google", tt.token())
			assert.Error(t, err)
			assert.Nil(t, id)
		})
	}
}

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }
func (s stubProvider) AuthCodeURL(string, string) string { return "" }
func (s stubProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, error) {
	return nil, nil
}
func (s stubProvider) VerifyIDToken(context.Context, string) (*auth.Identity, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(stubProvider{"keycloak"}, stubProvider{"google"})

	p, err := r.Get("google")
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())

	_, err = r.Get("github")
	assert.Error(t, err)

	assert.Equal(t, []string{"google", "keycloak"}, r.Names())
}
