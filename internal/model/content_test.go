package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name   string
		author *Author
		want   string
	}{
		{"nil author", nil, UnknownAuthorName},
		{"empty author", &Author{}, UnknownAuthorName},
		{"title only", &Author{Object: Object{Title: "Sarah"}}, "Sarah"},
		{"metadata name wins", &Author{Object: Object{Title: "sarah-j"}, Metadata: AuthorMetadata{Name: "Sarah Johnson"}}, "Sarah Johnson"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorName(tt.author))
		})
	}
}

func TestCategoryName(t *testing.T) {
	tests := []struct {
		name     string
		category *Category
		want     string
	}{
		{"nil category", nil, UncategorizedName},
		{"empty category", &Category{}, UncategorizedName},
		{"title only", &Category{Object: Object{Title: "Travel"}}, "Travel"},
		{"metadata name wins", &Category{Object: Object{Title: "travel"}, Metadata: CategoryMetadata{Name: "Travel & Places"}}, "Travel & Places"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryName(tt.category))
		})
	}
}

func TestAuthorAvatarURL(t *testing.T) {
	tests := []struct {
		name   string
		author *Author
		want   string
	}{
		{"nil author", nil, ""},
		{"nothing set", &Author{}, ""},
		{"thumbnail fallback", &Author{Object: Object{Thumbnail: "https://cdn/thumb.jpg"}}, "https://cdn/thumb.jpg"},
		{"avatar plain url", &Author{Metadata: AuthorMetadata{Avatar: &Image{URL: "https://cdn/a.jpg"}}}, "https://cdn/a.jpg"},
		{
			"avatar imgix wins over thumbnail",
			&Author{
				Object:   Object{Thumbnail: "https://cdn/thumb.jpg"},
				Metadata: AuthorMetadata{Avatar: &Image{URL: "https://cdn/a.jpg", ImgixURL: "https://imgix/a.jpg"}},
			},
			"https://imgix/a.jpg",
		},
		{"empty avatar falls through", &Author{Object: Object{Thumbnail: "https://cdn/t.jpg"}, Metadata: AuthorMetadata{Avatar: &Image{}}}, "https://cdn/t.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorAvatarURL(tt.author))
		})
	}
}

func TestFeaturedImageURL(t *testing.T) {
	assert.Equal(t, "", FeaturedImageURL(nil))
	assert.Equal(t, "", FeaturedImageURL(&Post{}))
	assert.Equal(t, "https://imgix/p.jpg", FeaturedImageURL(&Post{Metadata: PostMetadata{
		FeaturedImage: &Image{URL: "https://cdn/p.jpg", ImgixURL: "https://imgix/p.jpg"},
	}}))
}

func TestPostEffectiveDate(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	post := &Post{Object: Object{CreatedAt: created}}
	assert.Equal(t, created, post.EffectiveDate())

	post.PublishedAt = &Timestamp{Time: published}
	assert.Equal(t, published, post.EffectiveDate())

	post.PublishedAt = &Timestamp{}
	assert.Equal(t, created, post.EffectiveDate())
}

func TestPostUnmarshalExpandedRelations(t *testing.T) {
	data := `{
		"id": "p1",
		"slug": "hello",
		"title": "Hello",
		"type": "posts",
		"created_at": "2024-01-15T10:30:00.000Z",
		"published_at": "2024-01-16T08:00:00.000Z",
		"metadata": {
			"content": "# Hi",
			"featured_image": {"url": "https://cdn/x.jpg", "imgix_url": "https://imgix/x.jpg"},
			"author": {"id": "a1", "slug": "sarah", "title": "Sarah", "metadata": {"name": "Sarah J", "bio": "Writer"}},
			"category": {"id": "c1", "slug": "travel", "title": "Travel", "metadata": {"name": "Travel"}}
		}
	}`

	var post Post
	require.NoError(t, json.Unmarshal([]byte(data), &post))

	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "hello", post.Slug)
	assert.Equal(t, "# Hi", post.Metadata.Content)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, 16, post.PublishedAt.Day())
	require.NotNil(t, post.Metadata.Author)
	assert.Equal(t, "a1", post.Metadata.Author.ID)
	assert.Equal(t, "Writer", post.Metadata.Author.Metadata.Bio)
	require.NotNil(t, post.Metadata.Category)
	assert.Equal(t, "travel", post.Metadata.Category.Slug)
	assert.Equal(t, "https://imgix/x.jpg", FeaturedImageURL(&post))
}

func TestPostUnmarshalBareReferences(t *testing.T) {
	data := `{
		"id": "p1",
		"slug": "hello",
		"title": "Hello",
		"created_at": "2024-01-15T10:30:00Z",
		"published_at": null,
		"metadata": {"author": "a1", "category": "", "featured_image": null}
	}`

	var post Post
	require.NoError(t, json.Unmarshal([]byte(data), &post))

	assert.Nil(t, post.PublishedAt)
	require.NotNil(t, post.Metadata.Author)
	assert.Equal(t, "a1", post.Metadata.Author.ID)
	assert.Equal(t, UnknownAuthorName, AuthorName(post.Metadata.Author))
	assert.Nil(t, post.Metadata.Category)
	assert.Nil(t, post.Metadata.FeaturedImage)
}

func TestPostUnmarshalEmptyDates(t *testing.T) {
	data := `[
		{"id": "p1", "slug": "one", "title": "One", "created_at": "2024-01-15T10:30:00Z", "published_at": "", "modified_at": ""},
		{"id": "p2", "slug": "two", "title": "Two", "created_at": "2024-01-16T10:30:00Z", "published_at": "2024-02-01T00:00:00Z", "modified_at": "2024-02-02T00:00:00Z"}
	]`

	var posts []*Post
	require.NoError(t, json.Unmarshal([]byte(data), &posts))
	require.Len(t, posts, 2)

	assert.True(t, posts[0].ModifiedAt.IsZero())
	assert.Equal(t, 15, posts[0].EffectiveDate().Day(), "empty publish date falls back to creation")
	assert.Equal(t, 2, posts[1].ModifiedAt.Day())
	assert.Equal(t, time.February, posts[1].EffectiveDate().Month())
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, ParseTheme("dark"))
	assert.Equal(t, ThemeLight, ParseTheme("light"))
	assert.Equal(t, ThemeSystem, ParseTheme(""))
	assert.Equal(t, ThemeSystem, ParseTheme("purple"))
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, ThemeLight, ThemeDark.Toggle(false))
	assert.Equal(t, ThemeDark, ThemeLight.Toggle(true))
	assert.Equal(t, ThemeLight, ThemeSystem.Toggle(true))
	assert.Equal(t, ThemeDark, ThemeSystem.Toggle(false))
}
