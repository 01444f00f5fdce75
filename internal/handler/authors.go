package handler

import (
	"net/http"

	"github.com/templui/cosmicblog/internal/service"
	"github.com/templui/cosmicblog/internal/ui"
	"github.com/templui/cosmicblog/internal/ui/pages"
	"github.com/templui/cosmicblog/internal/validation"
)

type AuthorHandler struct {
	content *service.ContentService
	meta    *service.MetaService
}

func NewAuthorHandler(content *service.ContentService, meta *service.MetaService) *AuthorHandler {
	return &AuthorHandler{
		content: content,
		meta:    meta,
	}
}

func (h *AuthorHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.content.Authors(r.Context())
	if err != nil {
		renderError(w, r, h.meta)
		return
	}

	ui.Render(w, r, pages.Authors(h.meta.Authors(), authors))
}

func (h *AuthorHandler) ShowAuthor(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if validation.ValidateSlug(slug) != nil {
		renderNotFound(w, r, h.meta, "Author")
		return
	}

	author, err := h.content.AuthorBySlug(r.Context(), slug)
	if err != nil {
		renderError(w, r, h.meta)
		return
	}
	if author == nil {
		renderNotFound(w, r, h.meta, "Author")
		return
	}

	posts, err := h.content.PostsByAuthor(r.Context(), slug)
	if err != nil {
		renderError(w, r, h.meta)
		return
	}

	ui.Render(w, r, pages.Author(h.meta.Author(author), author, posts))
}
