package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_DSN", "sqlite:file:test.db")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("TOKEN_VALIDITY_DURATION", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("S3_BUCKET", "photos")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	want := &Config{}
	want.LoadDefaults()
	want.EndpointAddrHTTP = ":8080"
	want.DatabaseDSN = "sqlite:file:test.db"
	want.SecretKey = "env-secret"
	want.TokenValidityDuration = 2 * time.Hour
	want.CookieSecure = true
	want.RedisURL = "redis://cache:6379/0"
	want.S3Bucket = "photos"

	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_AddressWinsOverPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ADDRESS", "127.0.0.1:9999")

	cfg := &Config{}
	parseEnv(cfg)
	assert.Equal(t, "127.0.0.1:9999", cfg.EndpointAddrHTTP)
}

func TestParseEnv_BadValuesPanic(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN_VALIDITY_DURATION", "a week")
	require.Panics(t, func() { parseEnv(&Config{}) })

	clearEnv(t)
	t.Setenv("COOKIE_SECURE", "maybe")
	require.Panics(t, func() { parseEnv(&Config{}) })
}
