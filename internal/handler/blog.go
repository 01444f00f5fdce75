package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/cosmicblog/internal/markdown"
	"github.com/templui/cosmicblog/internal/service"
	"github.com/templui/cosmicblog/internal/ui"
	"github.com/templui/cosmicblog/internal/ui/pages"
	"github.com/templui/cosmicblog/internal/validation"
)

type BlogHandler struct {
	content *service.ContentService
	meta    *service.MetaService
	parser  *markdown.Parser
}

func NewBlogHandler(content *service.ContentService, meta *service.MetaService, parser *markdown.Parser) *BlogHandler {
	return &BlogHandler{
		content: content,
		meta:    meta,
		parser:  parser,
	}
}

// ListPosts filters by ?q= and ?category=. htmx requests get the results
// grid alone, except history restores which need the whole page.
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Vary", "HX-Request")

	filter := service.PostFilter{
		Query:      validation.NormalizeQuery(r.URL.Query().Get("q")),
		CategoryID: r.URL.Query().Get("category"),
	}
	if filter.CategoryID == "" {
		filter.CategoryID = service.AllCategories
	}

	posts, err := h.content.Posts(r.Context())
	if err != nil {
		renderError(w, r, h.meta)
		return
	}

	data := pages.PostsData{
		Posts:    service.FilterPosts(posts, filter),
		Query:    filter.Query,
		Category: filter.CategoryID,
		Filtered: filter.Active(),
	}

	if isPartial(r) {
		ui.Render(w, r, pages.PostResults(data))
		return
	}

	data.Categories, err = h.content.Categories(r.Context())
	if err != nil {
		renderError(w, r, h.meta)
		return
	}

	ui.Render(w, r, pages.Posts(h.meta.Posts(), data))
}

func (h *BlogHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if validation.ValidateSlug(slug) != nil {
		renderNotFound(w, r, h.meta, "Post")
		return
	}

	post, err := h.content.PostBySlug(r.Context(), slug)
	if err != nil {
		renderError(w, r, h.meta)
		return
	}
	if post == nil {
		renderNotFound(w, r, h.meta, "Post")
		return
	}

	body, err := h.parser.Parse([]byte(post.Metadata.Content))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to render post body", "error", err, "slug", slug)
		renderError(w, r, h.meta)
		return
	}

	ui.Render(w, r, pages.Post(h.meta.Post(post), post, string(body)))
}

func isPartial(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-History-Restore-Request") != "true"
}
