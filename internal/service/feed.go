package service

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/templui/cosmicblog/internal/model"
)

// feedSize caps the number of items in the RSS feed.
const feedSize = 20

type FeedService struct {
	content *ContentService
	meta    *MetaService
}

func NewFeedService(content *ContentService, meta *MetaService) *FeedService {
	return &FeedService{
		content: content,
		meta:    meta,
	}
}

// GenerateFeed renders the newest posts as RSS 2.0. Unlike the sitemap, a
// content failure fails the whole feed.
func (s *FeedService) GenerateFeed(ctx context.Context) ([]byte, error) {
	posts, err := s.content.Posts(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) > feedSize {
		posts = posts[:feedSize]
	}

	channel := model.RSSChannel{
		Title:       s.meta.SiteName(),
		Link:        s.meta.URL("/"),
		Description: s.meta.Tagline(),
		Language:    "en-us",
		Items:       make([]model.RSSItem, 0, len(posts)),
	}
	if len(posts) > 0 {
		channel.LastBuildDate = posts[0].EffectiveDate().Format(time.RFC1123Z)
	}

	for _, post := range posts {
		link := s.meta.URL("/posts/" + post.Slug)
		item := model.RSSItem{
			Title:       post.Title,
			Link:        link,
			GUID:        link,
			Description: s.meta.Post(post).Description,
			PubDate:     post.EffectiveDate().Format(time.RFC1123Z),
		}
		if post.Metadata.Author != nil {
			item.Author = model.AuthorName(post.Metadata.Author)
		}
		if post.Metadata.Category != nil {
			item.Category = model.CategoryName(post.Metadata.Category)
		}
		if src := model.FeaturedImageURL(post); src != "" {
			item.Enclosure = &model.RSSEnclosure{URL: src, Type: imageType(src)}
		}
		channel.Items = append(channel.Items, item)
	}

	output, err := xml.MarshalIndent(model.RSS{Version: "2.0", Channel: channel}, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}

func imageType(src string) string {
	path, _, _ := strings.Cut(strings.ToLower(src), "?")
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	case strings.HasSuffix(path, ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
