package provider

import (
	"context"

	"comic-service/internal/auth"
)

// OAuthProvider defines the contract every external auth provider
// must implement. Implementations return identity facts only and
// must not perform user creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "keycloak").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code for provider credentials
	// and returns a normalized identity. No auth decisions are made here.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Identity, error)

	// VerifyIDToken validates an id_token obtained by a native client SDK
	// and returns the identity it asserts.
	VerifyIDToken(ctx context.Context, rawIDToken string) (*auth.Identity, error)
}
