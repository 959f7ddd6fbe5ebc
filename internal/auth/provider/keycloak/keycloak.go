package keycloak

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"comic-service/internal/auth"
	"comic-service/internal/auth/provider"
	"comic-service/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const providerName = "keycloak"

// Provider implements OAuth + OIDC authentication against Keycloak.
// It returns identity facts only; no user/session decisions are made here.
type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New initializes a Keycloak OIDC provider using discovery.
// issuer must be the realm issuer URL, e.g.
// http://localhost:8081/realms/comics
// publicBaseURL replaces the host of the browser-facing auth endpoint when
// Keycloak is reached through a different address than the backend uses.
func New(
	ctx context.Context,
	issuer string,
	clientID string,
	redirectURL string,
	publicBaseURL string,
) (*Provider, error) {

	if issuer == "" || clientID == "" || redirectURL == "" || publicBaseURL == "" {
		return nil, errors.New("keycloak oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init keycloak oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	ep := oidcProvider.Endpoint()
	ep.AuthURL = publicAuthURL(issuer, publicBaseURL)

	oauthCfg := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURL,
		Endpoint:    ep,
		Scopes: []string{
			oidc.ScopeOpenID,
			"email",
			"profile",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		verifier:    verifier,
	}, nil
}

// publicAuthURL keeps the realm path of issuer but points at publicBaseURL.
func publicAuthURL(issuer, publicBaseURL string) string {
	realmPath := issuer
	if i := strings.Index(issuer, "/realms/"); i >= 0 {
		realmPath = issuer[i:]
	}
	return strings.TrimRight(publicBaseURL, "/") + realmPath + "/protocol/openid-connect/auth"
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// ExchangeCode exchanges the authorization code and returns a normalized identity.
// This method MUST NOT create users, sessions, or perform linking logic.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		logger.Error("keycloak token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("keycloak did not return id_token")
	}

	return p.VerifyIDToken(ctx, rawIDToken)
}

func (p *Provider) VerifyIDToken(ctx context.Context, rawIDToken string) (*auth.Identity, error) {
	return provider.VerifyIdentity(ctx, p.verifier, providerName, rawIDToken)
}
