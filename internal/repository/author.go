package repository

import (
	"context"

	"github.com/templui/cosmicblog/internal/cosmic"
	"github.com/templui/cosmicblog/internal/model"
)

type AuthorRepository interface {
	Authors(ctx context.Context) ([]*model.Author, error)
	BySlug(ctx context.Context, slug string) (*model.Author, error)
}

type authorRepository struct {
	api ContentAPI
}

func NewAuthorRepository(api ContentAPI) AuthorRepository {
	return &authorRepository{api: api}
}

func (r *authorRepository) Authors(ctx context.Context) ([]*model.Author, error) {
	return findAll[model.Author](ctx, r.api, cosmic.Query{
		Type:  model.TypeAuthors,
		Props: entryProps,
		Depth: relationDepth,
	})
}

func (r *authorRepository) BySlug(ctx context.Context, slug string) (*model.Author, error) {
	return findOne[model.Author](ctx, r.api, cosmic.Query{
		Type:  model.TypeAuthors,
		Slug:  slug,
		Depth: relationDepth,
	})
}
