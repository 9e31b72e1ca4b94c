package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/shareit")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30, cfg.BookingRateLimit)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProduction)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "1h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("BOOKING_RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, time.Hour, cfg.JWTAccessTokenTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.BookingRateLimit)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing DB_DSN", func(t *testing.T) {
		t.Setenv("DB_DSN", "")
		t.Setenv("JWT_SECRET", "secret")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_DSN")
	})

	t.Run("missing JWT_SECRET", func(t *testing.T) {
		t.Setenv("DB_DSN", "postgres://localhost/shareit")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("bad TTL", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_ACCESS_TOKEN_TTL", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_ACCESS_TOKEN_TTL")
	})

	t.Run("non-numeric rate limit", func(t *testing.T) {
		setRequired(t)
		t.Setenv("BOOKING_RATE_LIMIT_PER_MINUTE", "many")
		_, err := Load()
		assert.ErrorContains(t, err, "BOOKING_RATE_LIMIT_PER_MINUTE")
	})

	t.Run("zero rate limit", func(t *testing.T) {
		setRequired(t)
		t.Setenv("BOOKING_RATE_LIMIT_PER_MINUTE", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "must be positive")
	})
}
