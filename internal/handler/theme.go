package handler

import (
	"net/http"
	"strings"

	"github.com/templui/cosmicblog/internal/ctxkeys"
	"github.com/templui/cosmicblog/internal/middleware"
)

type ThemeHandler struct{}

func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

// Toggle flips the stored theme and sends the visitor back where they were.
// With no stored theme, the form's system_dark field says what the OS shows.
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	current := ctxkeys.Theme(r.Context())
	next := current.Toggle(r.PostFormValue("system_dark") == "1")
	middleware.SetThemeCookie(w, r, next)

	http.Redirect(w, r, localRedirect(r.PostFormValue("redirect")), http.StatusSeeOther)
}

// localRedirect only allows same-site absolute paths.
func localRedirect(target string) string {
	if !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") ||
		strings.HasPrefix(target, "/\\") ||
		strings.ContainsAny(target, "\r\n") {
		return "/"
	}
	return target
}
