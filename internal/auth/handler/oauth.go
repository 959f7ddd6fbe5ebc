package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"comic-service/internal/account"
	"comic-service/internal/auth"
	"comic-service/internal/credstore"
	"comic-service/internal/logger"
	"comic-service/internal/signin"

	"github.com/gin-gonic/gin"
)

type idTokenRequest struct {
	IDToken string `json:"idToken"`
}

func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		abortWith(c, http.StatusBadRequest, "unknown oauth provider")
		return
	}

	state, err := h.generateState(c)
	if err != nil {
		writeError(c, err)
		return
	}

	_, codeChallenge, err := h.generatePKCE(c)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		abortWith(c, http.StatusBadRequest, "unknown oauth provider")
		return
	}

	if !validateState(c) {
		abortWith(c, http.StatusUnauthorized, "invalid state")
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		abortWith(c, http.StatusUnauthorized, errParam)
		return
	}

	code := c.Query("code")
	if code == "" {
		abortWith(c, http.StatusBadRequest, "missing code")
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		abortWith(c, http.StatusUnauthorized, "missing pkce verifier")
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		logger.Warn("code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		abortWith(c, http.StatusUnauthorized, "authentication failed")
		return
	}

	h.reconcile(c, identity)
}

// IDTokenSignIn accepts an id_token obtained by a native client SDK.
func (h *Handler) IDTokenSignIn(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		abortWith(c, http.StatusBadRequest, "unknown oauth provider")
		return
	}

	var req idTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		abortWith(c, http.StatusBadRequest, "invalid request")
		return
	}

	identity, err := p.VerifyIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		abortWith(c, http.StatusUnauthorized, "authentication failed")
		return
	}

	h.reconcile(c, identity)
}

// reconcile maps the verified identity onto a password account in-process
// and answers like the login endpoint.
func (h *Handler) reconcile(c *gin.Context, identity *auth.Identity) {
	// an unverified email must not reach the password repair path of an
	// account it may not own
	if !identity.EmailVerified {
		logger.Warn("rejected identity with unverified email", map[string]any{
			"provider": identity.Provider,
		})
		abortWith(c, http.StatusUnauthorized, "email not verified")
		return
	}

	sessions := &recordingSessions{Sessions: h.sessions}

	r := signin.NewReconciler(
		account.NewLocalAPI(h.accounts, sessions),
		credstore.NewMemoryStore(),
		signin.NewHolder(),
		signin.WithPasswordPrefix(h.opts.PasswordPrefix),
	)

	st, err := r.SignIn(c.Request.Context(), *identity)
	if err != nil {
		writeError(c, err)
		return
	}
	if !st.Authenticated {
		msg := st.Err
		if msg == "" {
			msg = "sign-in cancelled"
		}
		abortWith(c, http.StatusUnauthorized, msg)
		return
	}

	h.setSessionCookie(c, st.Token, sessions.ExpiresAt())

	c.JSON(http.StatusOK, account.AuthData{
		Status:  http.StatusOK,
		Token:   st.Token,
		Message: "login success",
	})
}

// recordingSessions remembers the expiry of the last session it started.
type recordingSessions struct {
	Sessions

	mu        sync.Mutex
	expiresAt time.Time
}

func (s *recordingSessions) Start(ctx context.Context, userID string) (string, time.Time, error) {
	token, expiresAt, err := s.Sessions.Start(ctx, userID)
	if err == nil {
		s.mu.Lock()
		s.expiresAt = expiresAt
		s.mu.Unlock()
	}
	return token, expiresAt, err
}

func (s *recordingSessions) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}
