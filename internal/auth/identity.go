package auth

// Identity represents a normalized external authentication identity
// returned by an identity provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google", "keycloak"
	ProviderUserID string // provider-scoped unique user identifier (sub)
	Email          string // verified email returned by provider
	EmailVerified  bool   // whether provider asserts email ownership
	DisplayName    string // optional "name" claim
	IDToken        string // raw verified id_token the identity was read from
}
