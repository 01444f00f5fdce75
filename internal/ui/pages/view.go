package pages

import (
	"context"

	"github.com/templui/cosmicblog/internal/ctxkeys"
)

const defaultSiteName = "Cosmic Blog"

// Site carries the public, config-derived values the layout needs.
type Site struct {
	Name              string
	Tagline           string
	GoogleAnalyticsID string
	PlausibleDomain   string
	PlausibleHost     string
}

// site reads the sanitized config the Config middleware put in ctx.
func site(ctx context.Context) Site {
	cfg := ctxkeys.Config(ctx)
	if cfg == nil {
		return Site{Name: defaultSiteName}
	}
	return Site{
		Name:              cfg.AppName,
		Tagline:           cfg.AppTagline,
		GoogleAnalyticsID: cfg.GoogleAnalyticsID,
		PlausibleDomain:   cfg.PlausibleDomain,
		PlausibleHost:     cfg.PlausibleHost,
	}
}
