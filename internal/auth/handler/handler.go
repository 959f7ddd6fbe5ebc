package handler

import (
	"context"
	"net/http"
	"time"

	"comic-service/internal/account"
	"comic-service/internal/auth/provider"
	"comic-service/internal/history"
	"comic-service/internal/logger"
	"comic-service/internal/session"

	"github.com/gin-gonic/gin"
)

// Sessions is the part of session.Manager the handlers use.
type Sessions interface {
	Start(ctx context.Context, userID string) (string, time.Time, error)
	End(ctx context.Context, token string) error
}

// Options tunes cookie issuing and federated sign-in.
type Options struct {
	// PasswordPrefix forms the bridge password for provider sign-ins.
	PasswordPrefix string
	SecureCookies  bool
}

type Handler struct {
	accounts  *account.Service
	sessions  Sessions
	history   *history.Service
	providers *provider.Registry
	opts      Options
}

func NewHandler(
	accounts *account.Service,
	sessions Sessions,
	hist *history.Service,
	registry *provider.Registry,
	opts Options,
) *Handler {
	if registry == nil {
		registry = provider.NewRegistry()
	}
	return &Handler{
		accounts:  accounts,
		sessions:  sessions,
		history:   hist,
		providers: registry,
		opts:      opts,
	}
}

// RegisterRoutes mounts every public route on r and the protected ones
// behind requireAuth.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.GET("/oauth/login/:provider", h.login)
	r.GET("/oauth/callback/:provider", h.callback)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.PUT("/password", h.UpdatePassword)
	authGroup.POST("/idtoken/:provider", h.IDTokenSignIn)
	authGroup.POST("/logout", requireAuth, h.Logout)

	api.GET("/users/email/:email", h.FindUserByEmail)

	protected := api.Group("")
	protected.Use(requireAuth)
	protected.GET("/profile", h.GetProfile)
	protected.PUT("/profile", h.UpdateProfile)

	hist := protected.Group("/history")
	hist.GET("", h.ComicHistory)
	hist.POST("", h.AddHistory)
	hist.GET("/comics/:comicId", h.ChapterHistory)
	hist.GET("/comics/:comicId/latest", h.LatestChapter)
	hist.DELETE("/:id", h.DeleteHistory)

	for _, route := range r.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	session.SetCookie(c.Writer, token, expiresAt, session.CookieOptions{
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// writeError renders err as the {status, message} body every endpoint uses.
func writeError(c *gin.Context, err error) {
	status, msg := account.StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", map[string]any{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
	}
	abortWith(c, status, msg)
}

func abortWith(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":  status,
		"message": msg,
	})
}
