package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "globalship-api"
	cfg.App.Environment = "development"
	cfg.Server.Port = 8000
	cfg.JWT.Secret = "secret"
	cfg.JWT.AccessTokenTTL = 30 * time.Minute
	cfg.JWT.RefreshTokenTTL = 168 * time.Hour
	cfg.RateLimit.Requests = 60
	cfg.RateLimit.Window = time.Minute
	return cfg
}

func TestConfigValidate(t *testing.T) {
	t.Run("accepts a complete configuration", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("generates a signing secret in development", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.Secret = ""

		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.JWT.Secret)
	})

	t.Run("requires a signing secret in production", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "production"
		cfg.JWT.Secret = ""

		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects a non-positive rate limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateLimit.Requests = 0
		assert.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.RateLimit.Window = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects an invalid port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Port = 70000
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.RateLimit.Requests)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
	assert.Contains(t, cfg.RateLimit.ExemptPaths, "/health")
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}
