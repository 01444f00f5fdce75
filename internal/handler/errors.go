package handler

import (
	"net/http"

	"github.com/templui/cosmicblog/internal/service"
	"github.com/templui/cosmicblog/internal/ui"
	"github.com/templui/cosmicblog/internal/ui/pages"
)

// renderNotFound answers 404 with the not-found view. what names the missing
// thing in the title, e.g. "Post".
func renderNotFound(w http.ResponseWriter, r *http.Request, meta *service.MetaService, what string) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound(meta.NotFound(what)))
}

// renderError answers 500 with the generic error view. The content service
// has already logged the cause.
func renderError(w http.ResponseWriter, r *http.Request, meta *service.MetaService) {
	ui.RenderStatus(w, r, http.StatusInternalServerError, pages.Error(meta.Error(), r.URL.RequestURI()))
}
