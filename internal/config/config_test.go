package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/mommatch")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "mommatch_session", cfg.SessionCookieName)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.EnableMetrics)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:       "development",
			DatabaseDriver:    "sqlite",
			SQLitePath:        "./mommatch.db",
			DBMaxOpenConns:    5,
			SessionSecret:     DefaultSessionSecret,
			SessionTTL:        time.Hour,
			SessionCookieName: "mommatch_session",
			BCryptCost:        10,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "invalid database driver"},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = "postgres" }, "DATABASE_URL"},
		{"default secret in production", func(c *Config) { c.Environment = "production" }, "must be changed"},
		{"non-positive ttl", func(c *Config) { c.SessionTTL = 0 }, "TTL"},
		{"bcrypt cost too low", func(c *Config) { c.BCryptCost = 2 }, "bcrypt"},
		{"bcrypt cost too high", func(c *Config) { c.BCryptCost = 40 }, "bcrypt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestWebSocketOrigins(t *testing.T) {
	cors := []string{"https://app.mommatch.example"}

	tests := []struct {
		name        string
		environment string
		ws          []string
		want        []string
	}{
		{"explicit list wins", "production", []string{"https://ws.example"}, []string{"https://ws.example"}},
		{"development accepts any origin", "development", nil, nil},
		{"production falls back to CORS", "production", nil, cors},
		{"staging falls back to CORS", "staging", nil, cors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment, CORSAllowedOrigins: cors, WSAllowedOrigins: tt.ws}
			assert.Equal(t, tt.want, cfg.WebSocketOrigins())
		})
	}
}
