package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Content kinds as named by the content bucket.
const (
	TypePosts      = "posts"
	TypeAuthors    = "authors"
	TypeCategories = "categories"
)

const (
	UnknownAuthorName = "Unknown Author"
	UncategorizedName = "Uncategorized"
)

// Object holds the fields every content kind shares.
type Object struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Type        string     `json:"type,omitempty"`
	Status      string     `json:"status,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  Timestamp  `json:"modified_at"`
	PublishedAt *Timestamp `json:"published_at,omitempty"`
}

// Timestamp decodes both null and "" as the zero time. The bucket sends
// empty strings for dates that were never set.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if !hasValue(trimmed) || bytes.Equal(trimmed, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	return t.Time.UnmarshalJSON(trimmed)
}

// Image is a media reference. ImgixURL accepts transform query params (w, h, fit).
type Image struct {
	URL      string `json:"url"`
	ImgixURL string `json:"imgix_url"`
}

// Src prefers the transform-capable URL.
func (i *Image) Src() string {
	if i == nil {
		return ""
	}
	if i.ImgixURL != "" {
		return i.ImgixURL
	}
	return i.URL
}

type Post struct {
	Object
	Metadata PostMetadata `json:"metadata"`
}

type PostMetadata struct {
	Title         string    `json:"title,omitempty"`
	Content       string    `json:"content,omitempty"`
	FeaturedImage *Image    `json:"featured_image,omitempty"`
	Author        *Author   `json:"author,omitempty"`
	Category      *Category `json:"category,omitempty"`
}

// UnmarshalJSON accepts author/category either expanded (depth >= 1) or as
// a bare object id (depth 0), in which case only the ID is populated.
func (m *PostMetadata) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title         string          `json:"title"`
		Content       string          `json:"content"`
		FeaturedImage *Image          `json:"featured_image"`
		Author        json.RawMessage `json:"author"`
		Category      json.RawMessage `json:"category"`
	}
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	m.Title = raw.Title
	m.Content = raw.Content
	m.FeaturedImage = raw.FeaturedImage

	var authorID string
	m.Author = nil
	if isRef(raw.Author, &authorID) {
		if authorID != "" {
			m.Author = &Author{Object: Object{ID: authorID}}
		}
	} else if hasValue(raw.Author) {
		m.Author = &Author{}
		err = json.Unmarshal(raw.Author, m.Author)
		if err != nil {
			return err
		}
	}

	var categoryID string
	m.Category = nil
	if isRef(raw.Category, &categoryID) {
		if categoryID != "" {
			m.Category = &Category{Object: Object{ID: categoryID}}
		}
	} else if hasValue(raw.Category) {
		m.Category = &Category{}
		err = json.Unmarshal(raw.Category, m.Category)
		if err != nil {
			return err
		}
	}

	return nil
}

func hasValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func isRef(raw json.RawMessage, id *string) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return false
	}
	return json.Unmarshal(trimmed, id) == nil
}

// EffectiveDate is the publish time when present, else the creation time.
func (p *Post) EffectiveDate() time.Time {
	if p.PublishedAt != nil && !p.PublishedAt.IsZero() {
		return p.PublishedAt.Time
	}
	return p.CreatedAt
}

type Author struct {
	Object
	Metadata AuthorMetadata `json:"metadata"`
}

type AuthorMetadata struct {
	Name   string `json:"name,omitempty"`
	Bio    string `json:"bio,omitempty"`
	Avatar *Image `json:"avatar,omitempty"`
}

type Category struct {
	Object
	Metadata CategoryMetadata `json:"metadata"`
}

type CategoryMetadata struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func AuthorName(a *Author) string {
	if a == nil {
		return UnknownAuthorName
	}
	if a.Metadata.Name != "" {
		return a.Metadata.Name
	}
	if a.Title != "" {
		return a.Title
	}
	return UnknownAuthorName
}

func CategoryName(c *Category) string {
	if c == nil {
		return UncategorizedName
	}
	if c.Metadata.Name != "" {
		return c.Metadata.Name
	}
	if c.Title != "" {
		return c.Title
	}
	return UncategorizedName
}

// AuthorAvatarURL returns "" when the author has no avatar or thumbnail.
func AuthorAvatarURL(a *Author) string {
	if a == nil {
		return ""
	}
	if src := a.Metadata.Avatar.Src(); src != "" {
		return src
	}
	return a.Thumbnail
}

// FeaturedImageURL returns "" when the post has no featured image.
func FeaturedImageURL(p *Post) string {
	if p == nil {
		return ""
	}
	return p.Metadata.FeaturedImage.Src()
}
