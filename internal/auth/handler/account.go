package handler

import (
	"net/http"

	"comic-service/internal/account"
	"comic-service/internal/logger"
	"comic-service/internal/middleware"
	"comic-service/internal/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var req account.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, "invalid request")
		return
	}

	profile, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account.UserResponse{
		Status:   http.StatusCreated,
		Message:  "user registered",
		UserData: &profile,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req account.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, "invalid request")
		return
	}

	a, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, expiresAt, err := h.sessions.Start(c.Request.Context(), a.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setSessionCookie(c, token, expiresAt)

	c.JSON(http.StatusOK, account.AuthData{
		Status:  http.StatusOK,
		Token:   token,
		Message: "login success",
	})
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var req account.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.accounts.UpdatePassword(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "password updated",
	})
}

func (h *Handler) FindUserByEmail(c *gin.Context) {
	profile, err := h.accounts.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, account.UserResponse{
		Status:   http.StatusOK,
		Message:  "user found",
		UserData: &profile,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	token := middleware.TokenFromRequest(c.Request)
	if token != "" {
		// best-effort; the cookie is cleared either way
		if err := h.sessions.End(c.Request.Context(), token); err != nil {
			logger.Warn("session revoke failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	userID, _ := middleware.UserIDFromContext(c.Request.Context())
	logger.Info("logout", map[string]any{
		"user_id": userID,
		"ip":      c.ClientIP(),
	})

	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	profile, err := h.accounts.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, account.UserResponse{
		Status:   http.StatusOK,
		Message:  "profile",
		UserData: &profile,
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req account.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWith(c, http.StatusBadRequest, "invalid request")
		return
	}

	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	profile, err := h.accounts.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, account.UserResponse{
		Status:   http.StatusOK,
		Message:  "profile updated",
		UserData: &profile,
	})
}
