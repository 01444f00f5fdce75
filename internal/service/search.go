package service

import (
	"strings"

	"github.com/templui/cosmicblog/internal/model"
)

// AllCategories is the category selection that disables category filtering.
const AllCategories = "all"

// PostFilter narrows the post listing. CategoryID is an object id, not a slug.
type PostFilter struct {
	Query      string
	CategoryID string
}

// Active reports whether the filter excludes anything.
func (f PostFilter) Active() bool {
	return f.Query != "" || !f.matchesAnyCategory()
}

func (f PostFilter) matchesAnyCategory() bool {
	return f.CategoryID == "" || f.CategoryID == AllCategories
}

// Match requires both the category and the text predicate to hold. The text
// predicate is a case-insensitive substring test over title and body.
func (f PostFilter) Match(post *model.Post) bool {
	if !f.matchesAnyCategory() {
		if post.Metadata.Category == nil || post.Metadata.Category.ID != f.CategoryID {
			return false
		}
	}

	query := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(post.Title), query) ||
		strings.Contains(strings.ToLower(post.Metadata.Content), query)
}

// FilterPosts keeps the order of posts.
func FilterPosts(posts []*model.Post, f PostFilter) []*model.Post {
	out := make([]*model.Post, 0, len(posts))
	for _, post := range posts {
		if f.Match(post) {
			out = append(out, post)
		}
	}
	return out
}
