package handler

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	"comic-service/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	pkceCookieName = "__oauth_pkce"
	pkceTTL        = 5 * time.Minute
)

func (h *Handler) generatePKCE(c *gin.Context) (verifier string, challenge string, err error) {
	verifier, err = utils.RandomString(32)
	if err != nil {
		return "", "", err
	}

	challenge = pkceChallenge(verifier)

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     pkceCookieName,
		Value:    verifier,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(pkceTTL.Seconds()),
	})

	return verifier, challenge, nil
}

func pkceChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func getPKCEVerifier(c *gin.Context) string {
	cookie, err := c.Request.Cookie(pkceCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
