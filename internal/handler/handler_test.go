package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/cosmicblog/internal/config"
	"github.com/templui/cosmicblog/internal/cosmic/cosmictest"
	"github.com/templui/cosmicblog/internal/ctxkeys"
	"github.com/templui/cosmicblog/internal/markdown"
	"github.com/templui/cosmicblog/internal/middleware"
	"github.com/templui/cosmicblog/internal/model"
	"github.com/templui/cosmicblog/internal/repository"
	"github.com/templui/cosmicblog/internal/service"
)

type fixture struct {
	bucket  *cosmictest.Server
	content *service.ContentService
	meta    *service.MetaService
	parser  *markdown.Parser
}

func newFixture(t *testing.T, objects ...cosmictest.Object) *fixture {
	t.Helper()
	bucket := cosmictest.NewServer(t, objects...)
	client := bucket.ContentClient()
	cfg := &config.Config{
		AppName:    "Cosmic Blog",
		AppURL:     "https://blog.example.com",
		AppTagline: "Stories worth reading.",
	}
	return &fixture{
		bucket: bucket,
		content: service.NewContentService(
			repository.NewPostRepository(client),
			repository.NewAuthorRepository(client),
			repository.NewCategoryRepository(client),
			nil,
		),
		meta:   service.NewMetaService(cfg),
		parser: markdown.NewParser(),
	}
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC)
}

func blogObjects() []cosmictest.Object {
	travel := cosmictest.Category("c1", "travel", "Travel").Meta("name", "Travel").Meta("description", "Trips and places")
	tech := cosmictest.Category("c2", "tech", "Tech").Meta("name", "Tech News")
	sarah := cosmictest.Author("a1", "sarah", "Sarah").Meta("name", "Sarah Johnson").Meta("bio", "Writes about travel.")
	mike := cosmictest.Author("a2", "mike", "Mike")

	return []cosmictest.Object{
		travel, tech, sarah, mike,
		cosmictest.Post("p1", "beach-days", "Beach Days").Created(day(1)).
			Meta("content", "## Sand\n\nLong days by the sea.").
			Meta("category", travel).Meta("author", sarah),
		cosmictest.Post("p2", "ai-weekly", "AI Weekly").Created(day(5)).
			Meta("content", "Models and more models.").
			Meta("category", tech).Meta("author", sarah),
		cosmictest.Post("p3", "mountain-air", "Mountain Air").Created(day(3)).
			Meta("content", "Thin air, big views.").
			Meta("category", travel),
	}
}

func get(t *testing.T, h http.HandlerFunc, target string, pathValues map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func TestHomePage(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewHomeHandler(f.content, f.meta)

	rec := get(t, h.HomePage, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	doc := document(t, rec)
	assert.Equal(t, "Home - Cosmic Blog", doc.Find("title").Text())
	assert.Equal(t, "AI Weekly", doc.Find("#featured h3").Text(), "newest post is featured")
	assert.Equal(t, 2, doc.Find("#latest article").Length())
	assert.Equal(t, 2, doc.Find("#categories a").Length())
}

func TestHomePage_Empty(t *testing.T) {
	f := newFixture(t)
	h := NewHomeHandler(f.content, f.meta)

	rec := get(t, h.HomePage, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Contains(t, doc.Find("#empty").Text(), "No Posts Yet")
	assert.Equal(t, 0, doc.Find("#featured").Length())
	assert.Equal(t, 0, doc.Find("#latest").Length())
	assert.Equal(t, 0, doc.Find("#categories").Length())
}

func TestHomePage_CategoriesWithoutPosts(t *testing.T) {
	f := newFixture(t,
		cosmictest.Category("c1", "travel", "Travel").Meta("name", "Travel"),
		cosmictest.Category("c2", "tech", "Tech").Meta("name", "Tech News"),
	)
	h := NewHomeHandler(f.content, f.meta)

	rec := get(t, h.HomePage, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, 2, doc.Find("#categories a").Length())
	assert.Contains(t, doc.Find("#categories").Text(), "Tech News")
	assert.Contains(t, doc.Find("#empty").Text(), "No Posts Yet")
	assert.Equal(t, 0, doc.Find("#featured").Length())
	assert.Equal(t, 0, doc.Find("#latest").Length())
}

func TestHomePage_FetchFailure(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	f.bucket.Fail(http.StatusBadGateway)
	h := NewHomeHandler(f.content, f.meta)

	rec := get(t, h.HomePage, "/", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	doc := document(t, rec)
	assert.Equal(t, "Something went wrong", doc.Find("main h1").Text())
	retry, _ := doc.Find("main a").Attr("href")
	assert.Equal(t, "/", retry)
}

func TestNotFoundPage(t *testing.T) {
	f := newFixture(t)
	h := NewHomeHandler(f.content, f.meta)

	rec := get(t, h.NotFoundPage, "/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, "Page Not Found - Cosmic Blog", doc.Find("title").Text())
	assert.Zero(t, f.bucket.Requests())
}

func TestListPosts(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewBlogHandler(f.content, f.meta, f.parser)

	rec := get(t, h.ListPosts, "/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, 3, doc.Find("#post-results article").Length())
	assert.Equal(t, "AI Weekly", doc.Find("#post-results article h3").First().Text())
	checked, _ := doc.Find(`input[name="category"][checked]`).Attr("value")
	assert.Equal(t, "all", checked)
	assert.Contains(t, rec.Header().Values("Vary"), "HX-Request")
}

func TestListPosts_Filters(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewBlogHandler(f.content, f.meta, f.parser)

	tests := []struct {
		name  string
		query url.Values
		want  []string
		empty string
	}{
		{"title match ignores case", url.Values{"q": {"BEACH"}}, []string{"Beach Days"}, ""},
		{"body match", url.Values{"q": {"thin air"}}, []string{"Mountain Air"}, ""},
		{"category only", url.Values{"category": {"c1"}}, []string{"Mountain Air", "Beach Days"}, ""},
		{"category and query", url.Values{"category": {"c1"}, "q": {"models"}}, nil, "No posts found matching your criteria"},
		{"explicit all", url.Values{"category": {"all"}, "q": {"air"}}, []string{"Mountain Air"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h.ListPosts, "/posts?"+tt.query.Encode(), nil)
			require.Equal(t, http.StatusOK, rec.Code)

			doc := document(t, rec)
			var titles []string
			doc.Find("#post-results article h3").Each(func(_ int, s *goquery.Selection) {
				titles = append(titles, s.Text())
			})
			assert.Equal(t, tt.want, titles)
			if tt.empty != "" {
				assert.Contains(t, doc.Find("#post-results").Text(), tt.empty)
			}
		})
	}
}

func TestListPosts_HTMXFragment(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewBlogHandler(f.content, f.meta, f.parser)

	req := httptest.NewRequest(http.MethodGet, "/posts?q=beach", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ListPosts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(body), `<div id="post-results">`))
	assert.Equal(t, 1, f.bucket.Requests(), "fragment skips the category lookup")
}

func TestListPosts_HistoryRestoreGetsFullPage(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewBlogHandler(f.content, f.meta, f.parser)

	req := httptest.NewRequest(http.MethodGet, "/posts?q=beach", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-History-Restore-Request", "true")
	rec := httptest.NewRecorder()
	h.ListPosts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
}

func TestListPosts_QueryIsCapped(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewBlogHandler(f.content, f.meta, f.parser)

	rec := get(t, h.ListPosts, "/posts?q="+strings.Repeat("a", 500), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	value, _ := document(t, rec).Find(`input[name="q"]`).Attr("value")
	assert.Len(t, value, 200)
}

func TestShowPost(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewBlogHandler(f.content, f.meta, f.parser)

	rec := get(t, h.ShowPost, "/posts/beach-days", map[string]string{"slug": "beach-days"})
	require.Equal(t, http.StatusOK, rec.Code)

	doc := document(t, rec)
	assert.Equal(t, "Beach Days", doc.Find("title").Text())
	assert.Equal(t, "Sand", doc.Find(".prose h2").Text())
	assert.Contains(t, doc.Find("#about-author").Text(), "Writes about travel.")
	published, _ := doc.Find(`meta[property="article:published_time"]`).Attr("content")
	assert.Equal(t, "2024-01-01T09:00:00Z", published)
}

func TestShowPost_NotFound(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewBlogHandler(f.content, f.meta, f.parser)

	rec := get(t, h.ShowPost, "/posts/missing", map[string]string{"slug": "missing"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post Not Found - Cosmic Blog", document(t, rec).Find("title").Text())
}

func TestShowPost_InvalidSlugSkipsRemoteCall(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewBlogHandler(f.content, f.meta, f.parser)

	for _, slug := range []string{"Bad Slug", "../etc", "-lead", strings.Repeat("a", 201)} {
		rec := get(t, h.ShowPost, "/posts/x", map[string]string{"slug": slug})
		assert.Equal(t, http.StatusNotFound, rec.Code, slug)
	}
	assert.Zero(t, f.bucket.Requests())
}

func TestShowPost_FetchFailure(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	f.bucket.Fail(http.StatusInternalServerError)
	h := NewBlogHandler(f.content, f.meta, f.parser)

	rec := get(t, h.ShowPost, "/posts/beach-days?ref=x", map[string]string{"slug": "beach-days"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	retry, _ := document(t, rec).Find("main a").Attr("href")
	assert.Equal(t, "/posts/beach-days?ref=x", retry)
}

func TestCategories(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewCategoryHandler(f.content, f.meta)

	rec := get(t, h.ListCategories, "/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	var names []string
	doc.Find("main h2").Each(func(_ int, s *goquery.Selection) { names = append(names, s.Text()) })
	assert.Equal(t, []string{"Tech News", "Travel"}, names)

	rec = get(t, h.ShowCategory, "/categories/travel", map[string]string{"slug": "travel"})
	require.Equal(t, http.StatusOK, rec.Code)
	doc = document(t, rec)
	assert.Equal(t, "Travel - Cosmic Blog", doc.Find("title").Text())
	assert.Equal(t, "Trips and places", doc.Find("main header p").Text())
	assert.Equal(t, 2, doc.Find("main article").Length())

	rec = get(t, h.ShowCategory, "/categories/nope", map[string]string{"slug": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category Not Found - Cosmic Blog", document(t, rec).Find("title").Text())
}

func TestAuthors(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	h := NewAuthorHandler(f.content, f.meta)

	rec := get(t, h.ListAuthors, "/authors", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, document(t, rec).Find(`main a[href^="/authors/"]`).Length())

	rec = get(t, h.ShowAuthor, "/authors/mike", map[string]string{"slug": "mike"})
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Contains(t, doc.Find("main").Text(), "Articles by Mike")
	assert.Contains(t, doc.Find("main").Text(), "No posts published yet")

	rec = get(t, h.ShowAuthor, "/authors/sarah", map[string]string{"slug": "sarah"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, document(t, rec).Find("main article").Length())

	rec = get(t, h.ShowAuthor, "/authors/ghost", map[string]string{"slug": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowPage(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "pages")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.md"), []byte("---\ntitle: About Us\n---\n\nWe write.\n"), 0o644))

	f := newFixture(t)
	h := NewPageHandler(service.NewPageService(root, f.parser, false), f.meta)

	rec := get(t, h.ShowPage, "/pages/about", map[string]string{"page": "about"})
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, "About Us - Cosmic Blog", doc.Find("title").Text())
	assert.Contains(t, doc.Find(".prose").Text(), "We write.")

	rec = get(t, h.ShowPage, "/pages/missing", map[string]string{"page": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSEO(t *testing.T) {
	f := newFixture(t, blogObjects()...)
	pages := service.NewPageService(t.TempDir(), f.parser, false)
	h := NewSEOHandler(
		service.NewSitemapService(f.content, pages, "https://blog.example.com"),
		service.NewFeedService(f.content, f.meta),
		f.meta,
	)

	rec := get(t, h.Robots, "/robots.txt", nil)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://blog.example.com/sitemap.xml")

	rec = get(t, h.Sitemap, "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rec.Body.String(), "<loc>https://blog.example.com/posts/beach-days</loc>")

	rec = get(t, h.Feed, "/feed.xml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	feed, err := gofeed.NewParser().ParseString(rec.Body.String())
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, "AI Weekly", feed.Items[0].Title)

	f.bucket.Fail(http.StatusBadGateway)
	rec = get(t, h.Feed, "/feed.xml", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	rec = get(t, h.Sitemap, "/sitemap.xml", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "sitemap degrades to static routes")
}

func TestThemeToggle(t *testing.T) {
	tests := []struct {
		name       string
		current    model.Theme
		systemDark string
		redirect   string
		wantTheme  string
		wantTarget string
	}{
		{"dark to light", model.ThemeDark, "", "/posts", "light", "/posts"},
		{"light to dark", model.ThemeLight, "1", "/authors/sarah", "dark", "/authors/sarah"},
		{"system dark becomes light", model.ThemeSystem, "1", "/", "light", "/"},
		{"system light becomes dark", model.ThemeSystem, "", "/", "dark", "/"},
		{"protocol relative redirect refused", model.ThemeDark, "", "//evil.example", "light", "/"},
		{"absolute redirect refused", model.ThemeDark, "", "https://evil.example/", "light", "/"},
		{"backslash redirect refused", model.ThemeDark, "", "/\\evil.example", "light", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"system_dark": {tt.systemDark}, "redirect": {tt.redirect}}
			req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req = req.WithContext(ctxkeys.WithTheme(req.Context(), tt.current))
			rec := httptest.NewRecorder()

			NewThemeHandler().Toggle(rec, req)

			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.wantTarget, rec.Header().Get("Location"))
			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, middleware.ThemeCookieName, cookies[0].Name)
			assert.Equal(t, tt.wantTheme, cookies[0].Value)
		})
	}
}

func TestHealthz(t *testing.T) {
	rec := get(t, Healthz, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}
