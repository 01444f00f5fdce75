package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/cosmicblog/internal/app"
	"github.com/templui/cosmicblog/internal/config"
	"github.com/templui/cosmicblog/internal/cosmic/cosmictest"
	"github.com/templui/cosmicblog/internal/middleware"
)

func newServer(t *testing.T, mutate func(*config.Config)) (*httptest.Server, *cosmictest.Server) {
	t.Helper()

	sarah := cosmictest.Author("a1", "sarah", "Sarah").Meta("name", "Sarah Johnson")
	travel := cosmictest.Category("c1", "travel", "Travel")
	bucket := cosmictest.NewServer(t,
		sarah, travel,
		cosmictest.Post("p1", "hello-world", "Hello World").
			Created(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)).
			Meta("content", "Hello **there**.").
			Meta("author", sarah).Meta("category", travel),
	)

	cfg := &config.Config{
		AppName:           "Cosmic Blog",
		AppEnv:            "development",
		AppURL:            "https://blog.example.com",
		AppTagline:        "Stories worth reading.",
		ContentPath:       t.TempDir(),
		CosmicAPIURL:      bucket.URL,
		CosmicBucketSlug:  cosmictest.BucketSlug,
		CosmicReadKey:     cosmictest.ReadKey,
		RateLimitRequests: 0,
		RateLimitWindow:   time.Minute,
		MetricsEnabled:    true,
	}
	if mutate != nil {
		mutate(cfg)
	}

	a, err := app.New(cfg)
	require.NoError(t, err)

	server := httptest.NewServer(SetupRoutes(a))
	t.Cleanup(server.Close)
	return server, bucket
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func fetch(t *testing.T, server *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := noRedirectClient().Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRoutes_StatusCodes(t *testing.T) {
	server, _ := newServer(t, nil)

	tests := []struct {
		path string
		want int
	}{
		{"/", http.StatusOK},
		{"/posts", http.StatusOK},
		{"/posts/hello-world", http.StatusOK},
		{"/posts/missing", http.StatusNotFound},
		{"/posts/Not%20A%20Slug", http.StatusNotFound},
		{"/categories", http.StatusOK},
		{"/categories/travel", http.StatusOK},
		{"/authors", http.StatusOK},
		{"/authors/sarah", http.StatusOK},
		{"/pages/about", http.StatusNotFound},
		{"/robots.txt", http.StatusOK},
		{"/sitemap.xml", http.StatusOK},
		{"/feed.xml", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/assets/css/input.css", http.StatusOK},
		{"/no/such/page", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, _ := fetch(t, server, tt.path)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRoutes_SecurityHeadersAndNonce(t *testing.T) {
	server, _ := newServer(t, nil)

	resp, body := fetch(t, server, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	csp := resp.Header.Get("Content-Security-Policy")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	nonce, ok := doc.Find("head script:not([src])").Attr("nonce")
	require.True(t, ok)
	assert.Contains(t, csp, "'nonce-"+nonce+"'")

	assert.NotContains(t, body, cosmictest.ReadKey)
}

func TestRoutes_RequestIDIsEchoed(t *testing.T) {
	server, _ := newServer(t, nil)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get(middleware.RequestIDHeader))
}

func TestRoutes_ThemeToggleRequiresCSRF(t *testing.T) {
	server, _ := newServer(t, nil)
	client := noRedirectClient()

	resp, err := client.PostForm(server.URL+"/theme", url.Values{"redirect": {"/posts"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Pick up the token the way a browser would: cookie plus hidden form field.
	resp, body := fetch(t, server, "/posts")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	token, _ := doc.Find(`form[action="/theme"] input[name="csrf_token"]`).First().Attr("value")
	require.NotEmpty(t, token)

	form := url.Values{"csrf_token": {token}, "redirect": {"/posts"}, "system_dark": {""}}
	req, err := http.NewRequest(http.MethodPost, server.URL+"/theme", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/posts", resp.Header.Get("Location"))

	var theme string
	for _, c := range resp.Cookies() {
		if c.Name == middleware.ThemeCookieName {
			theme = c.Value
		}
	}
	assert.Equal(t, "dark", theme)

	// The stored theme renders server-side.
	req, err = http.NewRequest(http.MethodGet, server.URL+"/", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.ThemeCookieName, Value: theme})
	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	doc, err = goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.True(t, doc.Find("html").HasClass("dark"))
}

func TestRoutes_MetricsByRoutePattern(t *testing.T) {
	server, _ := newServer(t, nil)

	fetch(t, server, "/posts/hello-world")
	fetch(t, server, "/posts/missing")

	_, body := fetch(t, server, "/metrics")
	assert.Contains(t, body, `cosmicblog_http_requests_total{method="GET",route="GET /posts/{slug}",status="200"} 1`)
	assert.Contains(t, body, `cosmicblog_http_requests_total{method="GET",route="GET /posts/{slug}",status="404"} 1`)
	assert.Contains(t, body, `cosmicblog_content_fetches_total{op="post",outcome="absent"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRoutes_MetricsDisabled(t *testing.T) {
	server, _ := newServer(t, func(cfg *config.Config) {
		cfg.MetricsEnabled = false
	})

	resp, _ := fetch(t, server, "/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutes_RateLimit(t *testing.T) {
	server, _ := newServer(t, func(cfg *config.Config) {
		cfg.RateLimitRequests = 2
	})

	for i := 0; i < 2; i++ {
		resp, _ := fetch(t, server, "/healthz")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ := fetch(t, server, "/healthz")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	resp, _ = fetch(t, server, "/assets/css/input.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "assets are not counted")
}

func TestRoutes_ContentOutage(t *testing.T) {
	server, bucket := newServer(t, nil)
	bucket.Fail(http.StatusServiceUnavailable)

	resp, body := fetch(t, server, "/posts/hello-world")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Something went wrong")

	resp, _ = fetch(t, server, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "liveness does not depend on the content api")
}
