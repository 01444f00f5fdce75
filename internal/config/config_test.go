package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090/")
	t.Setenv("COSMIC_BUCKET_SLUG", "blog")
	t.Setenv("COSMIC_READ_KEY", "read-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "Cosmic Blog", cfg.AppName)
	assert.Equal(t, "http://localhost:8090", cfg.AppURL)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "https://api.cosmicjs.com/v3", cfg.CosmicAPIURL)
	assert.Equal(t, 120, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.True(t, cfg.MetricsEnabled)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_NAME", "Field Notes")
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := Load()
	assert.Equal(t, "Field Notes", cfg.AppName)
	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.False(t, cfg.MetricsEnabled)
}

func TestEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("X_INT", "many")
	t.Setenv("X_NEG", "-3")
	t.Setenv("X_BOOL", "perhaps")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, 7, envInt("X_NEG", 7))
	assert.True(t, envBool("X_BOOL", true))
	assert.Equal(t, time.Second, envDuration("X_DUR", time.Second))
	assert.Equal(t, "fallback", envString("X_UNSET", "fallback"))
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:       "Cosmic Blog",
		AppURL:        "https://blog.example.com",
		CosmicReadKey: "read-secret",
		SentryDSN:     "https://key@sentry.example.com/1",
	}

	safe := cfg.Sanitized()
	assert.Equal(t, "Cosmic Blog", safe.AppName)
	assert.Equal(t, "https://blog.example.com", safe.AppURL)
	assert.Empty(t, safe.CosmicReadKey)
	assert.Empty(t, safe.SentryDSN)
}
