package handler

import (
	"net/http"
	"time"

	"comic-service/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

func (h *Handler) generateState(c *gin.Context) (string, error) {
	state, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(stateTTL.Seconds()),
	})

	return state, nil
}

func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}

	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil {
		return false
	}

	return cookie.Value == stateQuery
}
