package repository

import (
	"context"

	"github.com/templui/cosmicblog/internal/cosmic"
	"github.com/templui/cosmicblog/internal/model"
)

type PostRepository interface {
	Posts(ctx context.Context) ([]*model.Post, error)
	BySlug(ctx context.Context, slug string) (*model.Post, error)
	ByCategoryID(ctx context.Context, categoryID string) ([]*model.Post, error)
	ByAuthorID(ctx context.Context, authorID string) ([]*model.Post, error)
}

type postRepository struct {
	api ContentAPI
}

func NewPostRepository(api ContentAPI) PostRepository {
	return &postRepository{api: api}
}

func (r *postRepository) Posts(ctx context.Context) ([]*model.Post, error) {
	return findAll[model.Post](ctx, r.api, cosmic.Query{
		Type:  model.TypePosts,
		Props: postProps,
		Depth: relationDepth,
	})
}

func (r *postRepository) BySlug(ctx context.Context, slug string) (*model.Post, error) {
	return findOne[model.Post](ctx, r.api, cosmic.Query{
		Type:  model.TypePosts,
		Slug:  slug,
		Depth: relationDepth,
	})
}

func (r *postRepository) ByCategoryID(ctx context.Context, categoryID string) ([]*model.Post, error) {
	return r.byMetadata(ctx, "category", categoryID)
}

func (r *postRepository) ByAuthorID(ctx context.Context, authorID string) ([]*model.Post, error) {
	return r.byMetadata(ctx, "author", authorID)
}

// byMetadata filters server-side on a relation field holding the object id.
func (r *postRepository) byMetadata(ctx context.Context, field, id string) ([]*model.Post, error) {
	return findAll[model.Post](ctx, r.api, cosmic.Query{
		Type:    model.TypePosts,
		Filters: map[string]string{"metadata." + field: id},
		Props:   postProps,
		Depth:   relationDepth,
	})
}
