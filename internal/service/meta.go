package service

import (
	"strings"
	"unicode/utf8"

	"github.com/templui/cosmicblog/internal/config"
	"github.com/templui/cosmicblog/internal/model"
)

// DefaultPreviewImage is shown in link previews when a page has no image of its own.
const DefaultPreviewImage = "https://imgix.cosmicjs.com/36626d80-0d24-11f1-9d49-adcc5e0003e3-photo-1677442136019-21780ecad995-1771458460748.jpg"

const (
	articleImageParams = "?w=1200&h=630&fit=crop&auto=format"
	avatarImageParams  = "?w=200&h=200&fit=crop&auto=format"
	descriptionLimit   = 160
)

// MetaService builds the head metadata of every page.
type MetaService struct {
	siteName string
	baseURL  string
	tagline  string
}

func NewMetaService(cfg *config.Config) *MetaService {
	return &MetaService{
		siteName: cfg.AppName,
		baseURL:  strings.TrimSuffix(cfg.AppURL, "/"),
		tagline:  cfg.AppTagline,
	}
}

func (s *MetaService) SiteName() string {
	return s.siteName
}

func (s *MetaService) Tagline() string {
	return s.tagline
}

// URL resolves a site path against the canonical base URL.
func (s *MetaService) URL(path string) string {
	return s.baseURL + path
}

func (s *MetaService) titled(title string) string {
	return title + " - " + s.siteName
}

func (s *MetaService) website(title, description, path string) model.PageMeta {
	return model.PageMeta{
		Title:       s.titled(title),
		Description: description,
		URL:         s.URL(path),
		Type:        "website",
	}
}

func (s *MetaService) Home() model.PageMeta {
	return s.website("Home", s.tagline, "/")
}

func (s *MetaService) Posts() model.PageMeta {
	return s.website("All Posts", "Explore our complete collection of stories and articles", "/posts")
}

// Post describes an article: the first 160 characters of the body (else the
// title) and the featured image cropped for link previews.
func (s *MetaService) Post(post *model.Post) model.PageMeta {
	description := truncate(post.Metadata.Content, descriptionLimit)
	if description == "" {
		description = post.Title
	}

	var authors []string
	if post.Metadata.Author != nil && post.Metadata.Author.Metadata.Name != "" {
		authors = []string{post.Metadata.Author.Metadata.Name}
	}

	return model.PageMeta{
		Title:         post.Title,
		Description:   description,
		URL:           s.URL("/posts/" + post.Slug),
		Image:         previewImage(model.FeaturedImageURL(post), articleImageParams),
		ImageWidth:    1200,
		ImageHeight:   630,
		ImageAlt:      post.Title,
		Type:          "article",
		PublishedTime: post.EffectiveDate(),
		Authors:       authors,
	}
}

func (s *MetaService) Categories() model.PageMeta {
	return s.website("Categories", "Browse posts by category on "+s.siteName, "/categories")
}

func (s *MetaService) Category(category *model.Category) model.PageMeta {
	name := model.CategoryName(category)
	description := category.Metadata.Description
	if description == "" {
		description = "Posts in " + name
	}
	return s.website(name, description, "/categories/"+category.Slug)
}

func (s *MetaService) Authors() model.PageMeta {
	return s.website("Authors", "Meet the talented writers behind "+s.siteName, "/authors")
}

func (s *MetaService) Author(author *model.Author) model.PageMeta {
	description := author.Metadata.Bio
	if description == "" {
		description = "Read articles by " + author.Title
	}

	meta := s.website(author.Title, description, "/authors/"+author.Slug)
	meta.Type = "profile"
	meta.Image = previewImage(model.AuthorAvatarURL(author), avatarImageParams)
	meta.ImageWidth = 200
	meta.ImageHeight = 200
	meta.ImageAlt = author.Title
	return meta
}

func (s *MetaService) StaticPage(page *model.StaticPage) model.PageMeta {
	return s.website(page.Title, page.Description, "/pages/"+page.Slug)
}

// NotFound titles the not-found view; what names the missing thing, e.g. "Post".
func (s *MetaService) NotFound(what string) model.PageMeta {
	if what == "" {
		what = "Page"
	}
	return model.PageMeta{
		Title:       s.titled(what + " Not Found"),
		Description: "The page you're looking for doesn't exist or has been moved.",
		Type:        "website",
	}
}

func (s *MetaService) Error() model.PageMeta {
	return model.PageMeta{
		Title:       s.titled("Something went wrong"),
		Description: "We encountered an error while loading this page.",
		Type:        "website",
	}
}

func previewImage(src, params string) string {
	if src == "" {
		return DefaultPreviewImage + params
	}
	return src + params
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
