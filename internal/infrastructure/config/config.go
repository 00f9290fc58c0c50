// Package config loads the process configuration from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// APIURL is the public base URL of this service; the Google callback is
	// registered under it.
	APIURL      string `env:"API_URL,      default=http://localhost:8080"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`

	Auth   AuthConfig
	Google GoogleConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Audit  AuditConfig
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL,             default=24h"`
	TokenIssuer        string        `env:"TOKEN_ISSUER,          default=blog-api"`
	BcryptCost         int           `env:"BCRYPT_COST,           default=12"`
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,    default=5"`
	LoginMaxIPAttempts int           `env:"LOGIN_MAX_IP_ATTEMPTS, default=20"`
	LoginCooldown      time.Duration `env:"LOGIN_COOLDOWN,        default=15m"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_ID"`
	ClientSecret string `env:"GOOGLE_SECRET"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.LoginMaxAttempts < 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must not be negative"))
	}
	if (c.Google.ClientID == "") != (c.Google.ClientSecret == "") {
		errs = append(errs, errors.New("GOOGLE_ID and GOOGLE_SECRET must be set together"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != ""
}

// GoogleCallbackURL is the redirect URI registered with Google.
func (c *Config) GoogleCallbackURL() string {
	return strings.TrimRight(c.APIURL, "/") + "/login/google/callback"
}
