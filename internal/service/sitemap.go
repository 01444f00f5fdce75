package service

import (
	"context"
	"encoding/xml"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/cosmicblog/internal/model"
)

// publicRoutes defines all static public routes that should be included in the sitemap
var publicRoutes = []struct {
	Path       string
	Priority   string
	ChangeFreq string
}{
	{"/", "1.0", "daily"},
	{"/posts", "0.9", "daily"},
	{"/categories", "0.6", "weekly"},
	{"/authors", "0.6", "weekly"},
}

type SitemapService struct {
	content *ContentService
	pages   *PageService
	baseURL string
}

func NewSitemapService(content *ContentService, pages *PageService, baseURL string) *SitemapService {
	// Ensure baseURL doesn't have trailing slash
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &SitemapService{
		content: content,
		pages:   pages,
		baseURL: baseURL,
	}
}

// GenerateSitemap lists static routes, local pages and every post, category
// and author. A failing content kind is logged and left out.
func (s *SitemapService) GenerateSitemap(ctx context.Context) ([]byte, error) {
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  s.staticURLs(),
	}

	postURLs, err := s.postURLs(ctx)
	if err != nil {
		slog.Warn("failed to get post URLs for sitemap", "error", err)
	} else {
		sitemap.URLs = append(sitemap.URLs, postURLs...)
	}

	categoryURLs, err := s.categoryURLs(ctx)
	if err != nil {
		slog.Warn("failed to get category URLs for sitemap", "error", err)
	} else {
		sitemap.URLs = append(sitemap.URLs, categoryURLs...)
	}

	authorURLs, err := s.authorURLs(ctx)
	if err != nil {
		slog.Warn("failed to get author URLs for sitemap", "error", err)
	} else {
		sitemap.URLs = append(sitemap.URLs, authorURLs...)
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}

func (s *SitemapService) staticURLs() []model.SitemapURL {
	today := time.Now().Format(time.DateOnly)
	urls := make([]model.SitemapURL, 0, len(publicRoutes))

	for _, route := range publicRoutes {
		urls = append(urls, model.SitemapURL{
			Loc:        s.baseURL + route.Path,
			LastMod:    today,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}

	if s.pages != nil {
		for _, page := range s.pages.Pages() {
			urls = append(urls, model.SitemapURL{
				Loc:        s.baseURL + "/pages/" + page.Slug,
				ChangeFreq: "monthly",
				Priority:   "0.3",
			})
		}
	}

	return urls
}

func (s *SitemapService) postURLs(ctx context.Context) ([]model.SitemapURL, error) {
	posts, err := s.content.Posts(ctx)
	if err != nil {
		return nil, err
	}

	urls := make([]model.SitemapURL, 0, len(posts))
	for _, post := range posts {
		lastMod := post.EffectiveDate()
		if post.ModifiedAt.After(lastMod) {
			lastMod = post.ModifiedAt.Time
		}

		urls = append(urls, model.SitemapURL{
			Loc:        s.baseURL + "/posts/" + post.Slug,
			LastMod:    lastMod.Format(time.DateOnly),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	return urls, nil
}

func (s *SitemapService) categoryURLs(ctx context.Context) ([]model.SitemapURL, error) {
	categories, err := s.content.Categories(ctx)
	if err != nil {
		return nil, err
	}

	urls := make([]model.SitemapURL, 0, len(categories))
	for _, category := range categories {
		urls = append(urls, model.SitemapURL{
			Loc:        s.baseURL + "/categories/" + category.Slug,
			ChangeFreq: "weekly",
			Priority:   "0.5",
		})
	}
	return urls, nil
}

func (s *SitemapService) authorURLs(ctx context.Context) ([]model.SitemapURL, error) {
	authors, err := s.content.Authors(ctx)
	if err != nil {
		return nil, err
	}

	urls := make([]model.SitemapURL, 0, len(authors))
	for _, author := range authors {
		urls = append(urls, model.SitemapURL{
			Loc:        s.baseURL + "/authors/" + author.Slug,
			ChangeFreq: "weekly",
			Priority:   "0.5",
		})
	}
	return urls, nil
}
