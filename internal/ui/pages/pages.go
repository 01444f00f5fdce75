package pages

import (
	"github.com/templui/cosmicblog/internal/model"
)

// latestLimit caps the "Latest Stories" grid below the featured post.
const latestLimit = 6

type HomeData struct {
	Featured   *model.Post
	Latest     []*model.Post
	Categories []*model.Category
}

// NewHomeData splits posts, newest first, into the featured article and the latest grid.
func NewHomeData(posts []*model.Post, categories []*model.Category) HomeData {
	data := HomeData{Categories: categories}
	if len(posts) == 0 {
		return data
	}
	data.Featured = posts[0]
	rest := posts[1:]
	if len(rest) > latestLimit {
		rest = rest[:latestLimit]
	}
	data.Latest = rest
	return data
}

type PostsData struct {
	Posts      []*model.Post
	Categories []*model.Category
	Query      string
	Category   string
	// Filtered reports whether a query or category narrowed the listing.
	Filtered bool
}

// categoryOptions is the "All Categories" choice followed by one radio per category.
func (d PostsData) categoryOptions() []CategoryOption {
	opts := []CategoryOption{newOption("all", "All Categories", d.Category)}
	for _, c := range d.Categories {
		opts = append(opts, newOption(c.ID, model.CategoryName(c), d.Category))
	}
	return opts
}
