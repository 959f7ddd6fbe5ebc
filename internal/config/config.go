package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"2000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	KeycloakIssuer        string `env:"KEYCLOAK_ISSUER"`
	KeycloakClientID      string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakRedirectURL   string `env:"KEYCLOAK_REDIRECT_URL"`
	KeycloakPublicBaseURL string `env:"KEYCLOAK_PUBLIC_BASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	TokenSecret string        `env:"TOKEN_SECRET"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	CORSOrigins  []string `env:"CORS_ORIGINS" envSeparator:","`
	CookieSecure bool     `env:"COOKIE_SECURE" envDefault:"true"`

	// BridgePasswordPrefix prefixes the email to form the synthetic password
	// used when an identity-provider sign-in is mapped onto a password account.
	BridgePasswordPrefix string `env:"BRIDGE_PASSWORD_PREFIX" envDefault:"GOOGLE_AUTH_"`
}

// ClientConfig configures the sign-in CLI.
type ClientConfig struct {
	APIBaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:2000"`
	RequestTimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`

	CredentialBackend string `env:"CREDENTIAL_BACKEND" envDefault:"bolt"`
	CredentialPath    string `env:"CREDENTIAL_PATH" envDefault:"credentials.db"`
	RedisAddr         string `env:"REDIS_ADDR"`
	RedisPassword     string `env:"REDIS_PASSWORD"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	BridgePasswordPrefix string `env:"BRIDGE_PASSWORD_PREFIX" envDefault:"GOOGLE_AUTH_"`
}

// Load reads server configuration from the environment, after merging an
// optional .env file in the working directory.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORSOrigins = trimCSV(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadClient reads CLI configuration from the environment.
func LoadClient() (ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return ClientConfig{}, err
	}

	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.CredentialBackend {
	case "bolt", "redis", "memory":
	default:
		return ClientConfig{}, fmt.Errorf("unknown CREDENTIAL_BACKEND %q", cfg.CredentialBackend)
	}
	if cfg.CredentialBackend == "redis" && cfg.RedisAddr == "" {
		return ClientConfig{}, errors.New("REDIS_ADDR is required for the redis credential backend")
	}

	return cfg, nil
}

// Validate checks required server settings.
func (c Config) Validate() error {
	if c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.BridgePasswordPrefix == "" {
		return errors.New("BRIDGE_PASSWORD_PREFIX must not be empty")
	}
	return nil
}

// GoogleEnabled reports whether google id_tokens can be verified. The web
// code flow additionally needs GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != ""
}

// KeycloakEnabled reports whether the keycloak provider is configured.
func (c Config) KeycloakEnabled() bool {
	return c.KeycloakIssuer != "" && c.KeycloakClientID != "" &&
		c.KeycloakRedirectURL != "" && c.KeycloakPublicBaseURL != ""
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

func trimCSV(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
