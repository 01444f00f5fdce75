package repository

import (
	"context"

	"github.com/templui/cosmicblog/internal/cosmic"
	"github.com/templui/cosmicblog/internal/model"
)

type CategoryRepository interface {
	Categories(ctx context.Context) ([]*model.Category, error)
	BySlug(ctx context.Context, slug string) (*model.Category, error)
}

type categoryRepository struct {
	api ContentAPI
}

func NewCategoryRepository(api ContentAPI) CategoryRepository {
	return &categoryRepository{api: api}
}

func (r *categoryRepository) Categories(ctx context.Context) ([]*model.Category, error) {
	return findAll[model.Category](ctx, r.api, cosmic.Query{
		Type:  model.TypeCategories,
		Props: entryProps,
		Depth: relationDepth,
	})
}

func (r *categoryRepository) BySlug(ctx context.Context, slug string) (*model.Category, error) {
	return findOne[model.Category](ctx, r.api, cosmic.Query{
		Type:  model.TypeCategories,
		Slug:  slug,
		Depth: relationDepth,
	})
}
