package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/cosmicblog/internal/cosmic"
	"github.com/templui/cosmicblog/internal/cosmic/cosmictest"
)

func fixtures() []cosmictest.Object {
	travel := cosmictest.Category("c1", "travel", "Travel")
	tech := cosmictest.Category("c2", "tech", "Tech")
	sarah := cosmictest.Author("a1", "sarah", "Sarah").Meta("name", "Sarah Johnson")

	return []cosmictest.Object{
		travel, tech, sarah,
		cosmictest.Post("p1", "beach-days", "Beach Days").Meta("category", travel).Meta("author", sarah),
		cosmictest.Post("p2", "ai-news", "AI News").Meta("category", tech),
	}
}

func TestPostRepository_Posts(t *testing.T) {
	bucket := cosmictest.NewServer(t, fixtures()...)
	repo := NewPostRepository(bucket.ContentClient())

	posts, err := repo.Posts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, 1, bucket.LastDepth())

	require.NotNil(t, posts[0].Metadata.Author)
	assert.Equal(t, "Sarah Johnson", posts[0].Metadata.Author.Metadata.Name)
	require.NotNil(t, posts[0].Metadata.Category)
	assert.Equal(t, "travel", posts[0].Metadata.Category.Slug)
}

func TestPostRepository_PostsEmptyBucket(t *testing.T) {
	bucket := cosmictest.NewServer(t)
	repo := NewPostRepository(bucket.ContentClient())

	posts, err := repo.Posts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepository_BySlug(t *testing.T) {
	bucket := cosmictest.NewServer(t, fixtures()...)
	repo := NewPostRepository(bucket.ContentClient())

	post, err := repo.BySlug(context.Background(), "ai-news")
	require.NoError(t, err)
	assert.Equal(t, "p2", post.ID)

	_, err = repo.BySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRepository_ByCategoryID(t *testing.T) {
	bucket := cosmictest.NewServer(t, fixtures()...)
	repo := NewPostRepository(bucket.ContentClient())

	posts, err := repo.ByCategoryID(context.Background(), "c2")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "ai-news", posts[0].Slug)
	assert.Equal(t, map[string]string{"type": "posts", "metadata.category": "c2"}, bucket.LastQuery())

	posts, err = repo.ByCategoryID(context.Background(), "c-unknown")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_ByAuthorID(t *testing.T) {
	bucket := cosmictest.NewServer(t, fixtures()...)
	repo := NewPostRepository(bucket.ContentClient())

	posts, err := repo.ByAuthorID(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "beach-days", posts[0].Slug)
}

func TestRepositories_PropagateFailures(t *testing.T) {
	bucket := cosmictest.NewServer(t, fixtures()...)
	bucket.Fail(http.StatusBadGateway)
	client := bucket.ContentClient()

	_, err := NewPostRepository(client).Posts(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = NewAuthorRepository(client).BySlug(context.Background(), "sarah")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.False(t, cosmic.IsNotFound(err))
}

func TestAuthorAndCategoryRepositories(t *testing.T) {
	bucket := cosmictest.NewServer(t, fixtures()...)
	client := bucket.ContentClient()

	authors, err := NewAuthorRepository(client).Authors(context.Background())
	require.NoError(t, err)
	assert.Len(t, authors, 1)

	author, err := NewAuthorRepository(client).BySlug(context.Background(), "sarah")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", author.Metadata.Name)

	categories, err := NewCategoryRepository(client).Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	_, err = NewCategoryRepository(client).BySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
