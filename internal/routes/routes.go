package routes

import (
	"io/fs"
	"net/http"

	"github.com/templui/cosmicblog"
	"github.com/templui/cosmicblog/internal/app"
	"github.com/templui/cosmicblog/internal/handler"
	"github.com/templui/cosmicblog/internal/metrics"
	"github.com/templui/cosmicblog/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.ContentService, app.MetaService)
	blog := handler.NewBlogHandler(app.ContentService, app.MetaService, app.Parser)
	categories := handler.NewCategoryHandler(app.ContentService, app.MetaService)
	authors := handler.NewAuthorHandler(app.ContentService, app.MetaService)
	pages := handler.NewPageHandler(app.PageService, app.MetaService)
	seo := handler.NewSEOHandler(app.SitemapService, app.FeedService, app.MetaService)
	theme := handler.NewThemeHandler()

	mux := http.NewServeMux()

	// Static files
	sub, _ := fs.Sub(cosmicblog.AssetsFS, "assets")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// Operations
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler(app.Registry))
	}

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)
	mux.HandleFunc("GET /feed.xml", seo.Feed)

	// Home
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Content
	mux.HandleFunc("GET /posts", blog.ListPosts)
	mux.HandleFunc("GET /posts/{slug}", blog.ShowPost)
	mux.HandleFunc("GET /categories", categories.ListCategories)
	mux.HandleFunc("GET /categories/{slug}", categories.ShowCategory)
	mux.HandleFunc("GET /authors", authors.ListAuthors)
	mux.HandleFunc("GET /authors/{slug}", authors.ShowAuthor)
	mux.HandleFunc("GET /pages/{page}", pages.ShowPage)

	// Preferences
	mux.HandleFunc("POST /theme", theme.Toggle)

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	limiter := middleware.NewRateLimiter(app.Cfg.RateLimitRequests, app.Cfg.RateLimitWindow)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,                // First so every log line carries the id
		middleware.Config(app.Cfg),          // Sanitized config for templates
		middleware.Nonce,                    // CSP nonce, must be before SecurityHeaders
		middleware.SecurityHeaders(app.Cfg), // CSP, clickjacking, sniffing, HSTS
		middleware.RequestLogging,
		middleware.RateLimit(limiter),
		middleware.CSRFProtection, // Guards the theme toggle form
		middleware.Theme,
		middleware.WithURLPath,
		middleware.Metrics(app.Metrics), // Last: reads the pattern the mux matched
	)

	return handler
}
