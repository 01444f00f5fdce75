package handler

import (
	"net/http"

	"github.com/templui/cosmicblog/internal/service"
	"github.com/templui/cosmicblog/internal/ui"
	"github.com/templui/cosmicblog/internal/ui/pages"
)

type HomeHandler struct {
	content *service.ContentService
	meta    *service.MetaService
}

func NewHomeHandler(content *service.ContentService, meta *service.MetaService) *HomeHandler {
	return &HomeHandler{
		content: content,
		meta:    meta,
	}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	posts, err := h.content.Posts(r.Context())
	if err != nil {
		renderError(w, r, h.meta)
		return
	}

	categories, err := h.content.Categories(r.Context())
	if err != nil {
		renderError(w, r, h.meta)
		return
	}

	ui.Render(w, r, pages.Home(h.meta.Home(), pages.NewHomeData(posts, categories)))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r, h.meta, "Page")
}
