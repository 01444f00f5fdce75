package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/cosmicblog/internal/service"
	"github.com/templui/cosmicblog/internal/ui"
	"github.com/templui/cosmicblog/internal/ui/pages"
	"github.com/templui/cosmicblog/internal/validation"
)

type PageHandler struct {
	pages *service.PageService
	meta  *service.MetaService
}

// NewPageHandler loads the pages up front. A broken page directory is logged
// and the handler serves 404s until it is fixed.
func NewPageHandler(pageService *service.PageService, meta *service.MetaService) *PageHandler {
	err := pageService.LoadPages()
	if err != nil {
		slog.Warn("failed to load pages", "error", err)
	}

	return &PageHandler{
		pages: pageService,
		meta:  meta,
	}
}

func (h *PageHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("page")
	if validation.ValidateSlug(slug) != nil {
		renderNotFound(w, r, h.meta, "Page")
		return
	}

	page, err := h.pages.Page(slug)
	if errors.Is(err, service.ErrPageNotFound) {
		renderNotFound(w, r, h.meta, "Page")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load page", "error", err, "page", slug)
		renderError(w, r, h.meta)
		return
	}

	ui.Render(w, r, pages.StaticPage(h.meta.StaticPage(page), page))
}
