// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultSessionSecret must be replaced outside development
const DefaultSessionSecret = "change-me-mommatch-session-secret"

// Config holds all application configuration
type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Database
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"./mommatch.db"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	RedisURL       string `env:"REDIS_URL"`

	// Sessions
	SessionSecret       string        `env:"SESSION_SECRET" envDefault:"change-me-mommatch-session-secret"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"mommatch_session"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	BCryptCost          int           `env:"BCRYPT_COST" envDefault:"10"`

	// HTTP surface
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	WSAllowedOrigins   []string `env:"WS_ALLOWED_ORIGINS" envSeparator:","`
	EnableMetrics      bool     `env:"ENABLE_METRICS" envDefault:"true"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid database driver: %s", c.DatabaseDriver)
	}

	if c.SessionSecret == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.SessionSecret == DefaultSessionSecret && c.IsProduction() {
		return fmt.Errorf("session secret must be changed for production")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.SessionCookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31")
	}
	if c.DBMaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// WebSocketOrigins is the origin allowlist for /ws. When WS_ALLOWED_ORIGINS is
// unset, development accepts any origin and other environments reuse the CORS list.
func (c *Config) WebSocketOrigins() []string {
	if len(c.WSAllowedOrigins) > 0 {
		return c.WSAllowedOrigins
	}
	if c.IsDevelopment() {
		return nil
	}
	return c.CORSAllowedOrigins
}
