package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	AppURL      string
	Port        string
	AppTagline  string
	ContentPath string

	// Content bucket
	CosmicAPIURL     string
	CosmicBucketSlug string
	CosmicReadKey    string

	// Rate limiting (per client IP)
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Analytics (all optional, can be used simultaneously)
	GoogleAnalyticsID string
	PlausibleDomain   string
	PlausibleHost     string // Default: plausible.io, can be self-hosted

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "Cosmic Blog"),
		AppEnv:      envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:      envRequired("APP_URL"), // Required: canonical base URL for links, sitemap and feed
		Port:        envString("PORT", "8090"),
		AppTagline:  envString("APP_TAGLINE", "Discover amazing stories about travel, productivity, technology, and AI."),
		ContentPath: envString("CONTENT_PATH", "content"),

		// Content bucket
		CosmicAPIURL:     envString("COSMIC_API_URL", "https://api.cosmicjs.com/v3"),
		CosmicBucketSlug: envRequired("COSMIC_BUCKET_SLUG"),
		CosmicReadKey:    envRequired("COSMIC_READ_KEY"),

		// Rate limiting
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   envDuration("RATE_LIMIT_WINDOW", time.Minute),

		// Analytics
		GoogleAnalyticsID: envString("GOOGLE_ANALYTICS_ID", ""),
		PlausibleDomain:   envString("PLAUSIBLE_DOMAIN", ""),
		PlausibleHost:     envString("PLAUSIBLE_HOST", "plausible.io"),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),
	}

	cfg.AppURL = strings.TrimSuffix(cfg.AppURL, "/")

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures links and canonical URLs are served over https.
func validateProduction(cfg *Config) {
	if !strings.HasPrefix(cfg.AppURL, "https://") {
		slog.Error("production deployment requires an https APP_URL",
			"app_url", cfg.AppURL,
			"hint", "set APP_ENV=development for local testing over http")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// The bucket read key and the Sentry DSN are excluded.
// Safe to expose in ctx, templates and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:     c.AppName,
		AppEnv:      c.AppEnv,
		AppURL:      c.AppURL,
		Port:        c.Port,
		AppTagline:  c.AppTagline,
		ContentPath: c.ContentPath,

		CosmicAPIURL:     c.CosmicAPIURL,
		CosmicBucketSlug: c.CosmicBucketSlug,

		RateLimitRequests: c.RateLimitRequests,
		RateLimitWindow:   c.RateLimitWindow,

		GoogleAnalyticsID: c.GoogleAnalyticsID,
		PlausibleDomain:   c.PlausibleDomain,
		PlausibleHost:     c.PlausibleHost,

		MetricsEnabled: c.MetricsEnabled,
	}
}
