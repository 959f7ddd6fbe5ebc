package app

import (
	"context"
	"net/http"
	"time"

	"comic-service/internal/account"
	"comic-service/internal/auth/handler"
	"comic-service/internal/auth/provider"
	"comic-service/internal/auth/provider/google"
	"comic-service/internal/auth/provider/keycloak"
	"comic-service/internal/config"
	"comic-service/internal/history"
	"comic-service/internal/logger"
	"comic-service/internal/middleware"
	"comic-service/internal/observability"
	"comic-service/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the domain services the router serves.
type Services struct {
	Accounts  *account.Service
	Sessions  *session.Manager
	History   *history.Service
	Providers *provider.Registry
}

func NewServices(infra *Infra, cfg config.Config, registry *provider.Registry) Services {
	return Services{
		Accounts:  account.NewService(infra.Accounts),
		Sessions:  session.NewManager(infra.Sessions, session.NewSigner(cfg.TokenSecret), cfg.SessionTTL),
		History:   history.NewService(infra.History),
		Providers: registry,
	}
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router := NewRouter(cfg, NewServices(infra, cfg, registry))

	return router, infra.Close, nil
}

func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleEnabled() {
		p, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	} else {
		logger.Warn("google provider disabled: GOOGLE_CLIENT_ID not set", nil)
	}

	if cfg.KeycloakEnabled() {
		p, err := keycloak.New(
			ctx,
			cfg.KeycloakIssuer,
			cfg.KeycloakClientID,
			cfg.KeycloakRedirectURL,
			cfg.KeycloakPublicBaseURL,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	} else {
		logger.Warn("keycloak provider disabled: KEYCLOAK_* not set", nil)
	}

	registry := provider.NewRegistry(list...)
	logger.Info("oauth providers ready", map[string]any{
		"providers": registry.Names(),
	})
	return registry, nil
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(cfg config.Config, svc Services) *gin.Engine {
	observability.RegisterMetrics()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(logger.Base()))
	router.Use(observability.RequestMetricsMiddleware())

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	authHandler := handler.NewHandler(
		svc.Accounts,
		svc.Sessions,
		svc.History,
		svc.Providers,
		handler.Options{
			PasswordPrefix: cfg.BridgePasswordPrefix,
			SecureCookies:  cfg.CookieSecure,
		},
	)

	requireAuth := middleware.GinRequireAuth(middleware.NewAuthMiddleware(svc.Sessions))
	authHandler.RegisterRoutes(router, requireAuth)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
