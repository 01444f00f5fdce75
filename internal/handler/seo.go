package handler

import (
	"net/http"

	"github.com/templui/cosmicblog/internal/service"
)

type SEOHandler struct {
	sitemapService *service.SitemapService
	feedService    *service.FeedService
	meta           *service.MetaService
}

func NewSEOHandler(sitemapService *service.SitemapService, feedService *service.FeedService, meta *service.MetaService) *SEOHandler {
	return &SEOHandler{
		sitemapService: sitemapService,
		feedService:    feedService,
		meta:           meta,
	}
}

// Robots points crawlers at the absolute sitemap URL.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /metrics\n" +
		"\n" +
		"Sitemap: " + h.meta.URL("/sitemap.xml") + "\n"

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

// Sitemap is rebuilt on every request. Content kinds that fail to load are left out.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := h.sitemapService.GenerateSitemap(r.Context())
	if err != nil {
		http.Error(w, "Failed to generate sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(sitemap)
}

func (h *SEOHandler) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.feedService.GenerateFeed(r.Context())
	if err != nil {
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write(feed)
}
