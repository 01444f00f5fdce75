package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/templui/cosmicblog/internal/config"
)

// htmxOrigin serves the htmx script used by the posts filter.
const htmxOrigin = "https://unpkg.com"

// nonceKey is separate from templ's internal key so SecurityHeaders can read
// the nonce back when building the CSP header.
type nonceKey struct{}

// Nonce generates a per-request CSP nonce and stores it where templates
// (templ.GetNonce) and SecurityHeaders (GetNonce) can find it.
func Nonce(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := generateNonce()
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to generate csp nonce", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := templ.WithNonce(r.Context(), nonce)
		ctx = context.WithValue(ctx, nonceKey{}, nonce)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetNonce(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey{}).(string)
	return nonce
}

// 16 bytes, 24 base64 characters
func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// SecurityHeaders sets the CSP and the usual hardening headers. Inline
// scripts run only with the request nonce; must run after Nonce.
func SecurityHeaders(cfg *config.Config) func(http.Handler) http.Handler {
	scriptSrc := []string{"'self'", htmxOrigin}
	connectSrc := []string{"'self'"}

	if cfg.GoogleAnalyticsID != "" {
		scriptSrc = append(scriptSrc, "https://www.googletagmanager.com")
		connectSrc = append(connectSrc, "https://www.google-analytics.com", "https://*.google-analytics.com")
	}
	if cfg.PlausibleDomain != "" {
		origin := "https://" + cfg.PlausibleHost
		scriptSrc = append(scriptSrc, origin)
		connectSrc = append(connectSrc, origin)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scripts := scriptSrc
			if nonce := GetNonce(r.Context()); nonce != "" {
				scripts = append([]string{"'nonce-" + nonce + "'"}, scriptSrc...)
			}

			csp := strings.Join([]string{
				"default-src 'self'",
				"script-src " + strings.Join(scripts, " "),
				"style-src 'self'",
				"img-src 'self' https: data:",
				"connect-src " + strings.Join(connectSrc, " "),
				"font-src 'self'",
				"object-src 'none'",
				"base-uri 'self'",
				"form-action 'self'",
				"frame-ancestors 'none'",
			}, "; ")

			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if cfg.IsProduction() {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
