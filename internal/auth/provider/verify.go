package provider

import (
	"context"
	"errors"
	"fmt"

	"comic-service/internal/auth"
	"comic-service/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
)

// VerifyIdentity checks rawIDToken with verifier and maps its claims onto a
// normalized identity.
func VerifyIdentity(
	ctx context.Context,
	verifier *oidc.IDTokenVerifier,
	providerName string,
	rawIDToken string,
) (*auth.Identity, error) {

	if rawIDToken == "" {
		return nil, fmt.Errorf("%s: empty id_token", providerName)
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%s id_token verification failed: %w", providerName, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%s id_token claims parse failed: %w", providerName, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New(providerName + " id_token missing required claims")
	}

	logger.Info("oidc identity verified", map[string]any{
		"provider":       providerName,
		"issuer":         idToken.Issuer,
		"email_verified": claims.EmailVerified,
		"name_present":   claims.Name != "",
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		EmailVerified:  claims.EmailVerified,
		DisplayName:    claims.Name,
		IDToken:        rawIDToken,
	}, nil
}
