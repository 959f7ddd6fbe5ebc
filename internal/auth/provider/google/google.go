package google

import (
	"context"
	"errors"
	"fmt"

	"comic-service/internal/auth"
	"comic-service/internal/auth/provider"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const (
	providerName = "google"
	issuer       = "https://accounts.google.com"
)

type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New discovers Google's OIDC configuration. Only clientID is needed to
// verify native-client id_tokens; the web code flow also needs clientSecret
// and redirectURL.
func New(
	ctx context.Context,
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if clientID == "" {
		return nil, errors.New("google oauth config missing client id")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return newProvider(oauthCfg, verifier), nil
}

func newProvider(cfg *oauth2.Config, verifier *oidc.IDTokenVerifier) *Provider {
	return &Provider{
		oauthConfig: cfg,
		verifier:    verifier,
	}
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
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google did not return id_token")
	}

	return p.VerifyIDToken(ctx, rawIDToken)
}

func (p *Provider) VerifyIDToken(ctx context.Context, rawIDToken string) (*auth.Identity, error) {
	return provider.VerifyIdentity(ctx, p.verifier, providerName, rawIDToken)
}
