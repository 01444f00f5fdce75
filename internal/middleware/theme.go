package middleware

import (
	"net/http"

	"github.com/templui/cosmicblog/internal/ctxkeys"
	"github.com/templui/cosmicblog/internal/model"
)

// ThemeCookieName holds "dark" or "light". Without it the OS preference applies.
const ThemeCookieName = "theme"

// Theme reads the stored color scheme preference into the request context.
func Theme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := model.ThemeSystem
		cookie, err := r.Cookie(ThemeCookieName)
		if err == nil {
			theme = model.ParseTheme(cookie.Value)
		}

		next.ServeHTTP(w, r.WithContext(ctxkeys.WithTheme(r.Context(), theme)))
	})
}

// SetThemeCookie persists theme for a year.
func SetThemeCookie(w http.ResponseWriter, r *http.Request, theme model.Theme) {
	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookieName,
		Value:    string(theme),
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 365,
	})
}
