package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/cosmicblog/internal/cosmic/cosmictest"
	"github.com/templui/cosmicblog/internal/markdown"
	"github.com/templui/cosmicblog/internal/model"
)

func locs(t *testing.T, data []byte) []string {
	t.Helper()
	var sitemap model.Sitemap
	require.NoError(t, xml.Unmarshal(data, &sitemap))
	out := make([]string, 0, len(sitemap.URLs))
	for _, u := range sitemap.URLs {
		out = append(out, u.Loc)
	}
	return out
}

func TestSitemapService_ListsEverything(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "about.md", "# About\n")
	pages := NewPageService(root, markdown.NewParser(), false)
	require.NoError(t, pages.LoadPages())

	content, _ := newContentService(t, cosmictest.NewServer(t, blogFixtures()...))
	s := NewSitemapService(content, pages, "https://blog.example.com/")

	data, err := s.GenerateSitemap(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)

	got := locs(t, data)
	for _, want := range []string{
		"https://blog.example.com/",
		"https://blog.example.com/posts",
		"https://blog.example.com/pages/about",
		"https://blog.example.com/posts/published-late",
		"https://blog.example.com/categories/travel",
		"https://blog.example.com/authors/sarah",
	} {
		assert.Contains(t, got, want)
	}
}

func TestSitemapService_ContentFailureKeepsStaticRoutes(t *testing.T) {
	bucket := cosmictest.NewServer(t, blogFixtures()...)
	bucket.Fail(http.StatusServiceUnavailable)
	content, _ := newContentService(t, bucket)

	data, err := NewSitemapService(content, nil, "https://blog.example.com").GenerateSitemap(context.Background())
	require.NoError(t, err)
	assert.Len(t, locs(t, data), len(publicRoutes))
}

func TestFeedService_GeneratesParsableRSS(t *testing.T) {
	fixtures := blogFixtures()
	fixtures[5].Meta("featured_image", map[string]any{"url": "https://cdn/x.png", "imgix_url": "https://imgix/x.png"})
	fixtures[5].Meta("content", "A body about trips.")

	content, _ := newContentService(t, cosmictest.NewServer(t, fixtures...))
	s := NewFeedService(content, NewMetaService(testConfig()))

	data, err := s.GenerateFeed(context.Background())
	require.NoError(t, err)

	feed, err := gofeed.NewParser().ParseString(string(data))
	require.NoError(t, err)
	assert.Equal(t, "Cosmic Blog", feed.Title)
	assert.Equal(t, "Stories worth reading.", feed.Description)
	require.Len(t, feed.Items, 3)

	first := feed.Items[0]
	assert.Equal(t, "Published Late", first.Title)
	assert.Equal(t, "https://blog.example.com/posts/published-late", first.Link)
	require.NotNil(t, first.PublishedParsed)
	assert.Equal(t, day(20), first.PublishedParsed.UTC())
	assert.Equal(t, []string{"Tech News"}, first.Categories)

	last := feed.Items[2]
	assert.Equal(t, "https://blog.example.com/posts/oldest", last.Link)
	assert.Equal(t, "A body about trips.", last.Description)
	require.Len(t, last.Enclosures, 1)
	assert.Equal(t, "https://imgix/x.png", last.Enclosures[0].URL)
	assert.Equal(t, "image/png", last.Enclosures[0].Type)
}

func TestFeedService_CapsItems(t *testing.T) {
	bucket := cosmictest.NewServer(t)
	for i := 1; i <= feedSize+5; i++ {
		bucket.Add(cosmictest.Post(fmt.Sprintf("p%d", i), fmt.Sprintf("post-%d", i), "Post").Created(day(1)))
	}
	content, _ := newContentService(t, bucket)

	data, err := NewFeedService(content, NewMetaService(testConfig())).GenerateFeed(context.Background())
	require.NoError(t, err)

	feed, err := gofeed.NewParser().ParseString(string(data))
	require.NoError(t, err)
	assert.Len(t, feed.Items, feedSize)
}

func TestFeedService_FailurePropagates(t *testing.T) {
	bucket := cosmictest.NewServer(t, blogFixtures()...)
	bucket.Fail(http.StatusInternalServerError)
	content, _ := newContentService(t, bucket)

	_, err := NewFeedService(content, NewMetaService(testConfig())).GenerateFeed(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestImageType(t *testing.T) {
	assert.Equal(t, "image/png", imageType("https://x/a.PNG?w=1"))
	assert.Equal(t, "image/webp", imageType("https://x/a.webp"))
	assert.Equal(t, "image/jpeg", imageType("https://x/a"))
}
