package handler

import (
	"net/http"

	"github.com/templui/cosmicblog/internal/service"
	"github.com/templui/cosmicblog/internal/ui"
	"github.com/templui/cosmicblog/internal/ui/pages"
	"github.com/templui/cosmicblog/internal/validation"
)

type CategoryHandler struct {
	content *service.ContentService
	meta    *service.MetaService
}

func NewCategoryHandler(content *service.ContentService, meta *service.MetaService) *CategoryHandler {
	return &CategoryHandler{
		content: content,
		meta:    meta,
	}
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.content.Categories(r.Context())
	if err != nil {
		renderError(w, r, h.meta)
		return
	}

	ui.Render(w, r, pages.Categories(h.meta.Categories(), categories))
}

func (h *CategoryHandler) ShowCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if validation.ValidateSlug(slug) != nil {
		renderNotFound(w, r, h.meta, "Category")
		return
	}

	category, err := h.content.CategoryBySlug(r.Context(), slug)
	if err != nil {
		renderError(w, r, h.meta)
		return
	}
	if category == nil {
		renderNotFound(w, r, h.meta, "Category")
		return
	}

	posts, err := h.content.PostsByCategory(r.Context(), slug)
	if err != nil {
		renderError(w, r, h.meta)
		return
	}

	ui.Render(w, r, pages.Category(h.meta.Category(category), category, posts))
}
