package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/cosmicblog/internal/cosmic"
	"github.com/templui/cosmicblog/internal/cosmic/cosmictest"
	"github.com/templui/cosmicblog/internal/metrics"
	"github.com/templui/cosmicblog/internal/repository"
)

func newContentService(t *testing.T, bucket *cosmictest.Server) (*ContentService, *metrics.Metrics) {
	t.Helper()
	client := bucket.ContentClient()
	m := metrics.New(prometheus.NewRegistry())
	return NewContentService(
		repository.NewPostRepository(client),
		repository.NewAuthorRepository(client),
		repository.NewCategoryRepository(client),
		m,
	), m
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func blogFixtures() []cosmictest.Object {
	travel := cosmictest.Category("c1", "travel", "Travel").Meta("name", "Travel")
	tech := cosmictest.Category("c2", "tech", "Tech").Meta("name", "Tech News")
	empty := cosmictest.Category("c3", "empty", "Empty").Meta("name", "empty shelf")
	sarah := cosmictest.Author("a1", "sarah", "Sarah").Meta("name", "Sarah Johnson")
	mike := cosmictest.Author("a2", "mike", "Mike").Meta("name", "Mike Chen")

	return []cosmictest.Object{
		travel, tech, empty, sarah, mike,
		cosmictest.Post("p1", "oldest", "Oldest").Created(day(1)).Meta("category", travel).Meta("author", sarah),
		cosmictest.Post("p2", "published-late", "Published Late").Created(day(2)).Published(day(20)).Meta("category", tech).Meta("author", mike),
		cosmictest.Post("p3", "middle", "Middle").Created(day(10)).Meta("category", travel).Meta("author", mike),
	}
}

func TestContentService_PostsNewestFirst(t *testing.T) {
	svc, m := newContentService(t, cosmictest.NewServer(t, blogFixtures()...))

	posts, err := svc.Posts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, "published-late", posts[0].Slug)
	assert.Equal(t, "middle", posts[1].Slug)
	assert.Equal(t, "oldest", posts[2].Slug)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].EffectiveDate().After(posts[i-1].EffectiveDate()))
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContentFetches.WithLabelValues("posts", metrics.OutcomeOK)))
}

func TestContentService_PostsEmptyBucket(t *testing.T) {
	svc, _ := newContentService(t, cosmictest.NewServer(t))

	posts, err := svc.Posts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestContentService_PostBySlug(t *testing.T) {
	svc, m := newContentService(t, cosmictest.NewServer(t, blogFixtures()...))

	post, err := svc.PostBySlug(context.Background(), "middle")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "Mike Chen", post.Metadata.Author.Metadata.Name)

	post, err = svc.PostBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, post)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContentFetches.WithLabelValues("post", metrics.OutcomeAbsent)))
}

func TestContentService_PostsByCategory(t *testing.T) {
	bucket := cosmictest.NewServer(t, blogFixtures()...)
	svc, _ := newContentService(t, bucket)

	posts, err := svc.PostsByCategory(context.Background(), "travel")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "middle", posts[0].Slug)
	assert.Equal(t, "oldest", posts[1].Slug)
	for _, p := range posts {
		assert.Equal(t, "c1", p.Metadata.Category.ID)
	}

	posts, err = svc.PostsByCategory(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestContentService_PostsByUnknownCategorySkipsPostQuery(t *testing.T) {
	bucket := cosmictest.NewServer(t, blogFixtures()...)
	svc, _ := newContentService(t, bucket)

	posts, err := svc.PostsByCategory(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.Equal(t, 1, bucket.Requests())
}

func TestContentService_PostsByAuthor(t *testing.T) {
	svc, _ := newContentService(t, cosmictest.NewServer(t, blogFixtures()...))

	posts, err := svc.PostsByAuthor(context.Background(), "mike")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "published-late", posts[0].Slug)
	assert.Equal(t, "middle", posts[1].Slug)

	posts, err = svc.PostsByAuthor(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestContentService_CategoriesSortedByName(t *testing.T) {
	bucket := cosmictest.NewServer(t, blogFixtures()...)
	bucket.Add(cosmictest.Category("c4", "no-name", "Zeta"))
	svc, _ := newContentService(t, bucket)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 4)

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Metadata.Name)
	}
	// Missing names sort as the empty string; collation ignores case.
	assert.Equal(t, []string{"", "empty shelf", "Tech News", "Travel"}, names)
}

func TestContentService_AuthorsSortedByName(t *testing.T) {
	svc, _ := newContentService(t, cosmictest.NewServer(t, blogFixtures()...))

	authors, err := svc.Authors(context.Background())
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Mike Chen", authors[0].Metadata.Name)
	assert.Equal(t, "Sarah Johnson", authors[1].Metadata.Name)
}

func TestContentService_EqualNamesKeepBucketOrder(t *testing.T) {
	bucket := cosmictest.NewServer(t,
		cosmictest.Category("c1", "travel", "Travel").Meta("name", "Travel"),
		cosmictest.Category("c2", "tech", "Tech").Meta("name", "Tech News"),
		cosmictest.Category("c5", "travel-2", "Travel").Meta("name", "Travel"),
		cosmictest.Author("a1", "sam", "Sam").Meta("name", "Sam Lee"),
		cosmictest.Author("a2", "ann", "Ann").Meta("name", "Ann Park"),
		cosmictest.Author("a5", "sam-2", "Sam").Meta("name", "Sam Lee"),
	)
	svc, _ := newContentService(t, bucket)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	var categoryIDs []string
	for _, c := range categories {
		categoryIDs = append(categoryIDs, c.ID)
	}
	assert.Equal(t, []string{"c2", "c1", "c5"}, categoryIDs)

	authors, err := svc.Authors(context.Background())
	require.NoError(t, err)
	var authorIDs []string
	for _, a := range authors {
		authorIDs = append(authorIDs, a.ID)
	}
	assert.Equal(t, []string{"a2", "a1", "a5"}, authorIDs)
}

func TestContentService_SingleLookupsAbsent(t *testing.T) {
	svc, _ := newContentService(t, cosmictest.NewServer(t, blogFixtures()...))

	category, err := svc.CategoryBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, category)

	author, err := svc.AuthorBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, author)

	author, err = svc.AuthorBySlug(context.Background(), "sarah")
	require.NoError(t, err)
	require.NotNil(t, author)
	assert.Equal(t, "a1", author.ID)
}

func TestContentService_FailuresAreOpaqueFetchErrors(t *testing.T) {
	bucket := cosmictest.NewServer(t, blogFixtures()...)
	bucket.Fail(http.StatusInternalServerError)
	svc, m := newContentService(t, bucket)
	ctx := context.Background()

	calls := map[string]func() error{
		"posts":             func() error { _, err := svc.Posts(ctx); return err },
		"post":              func() error { _, err := svc.PostBySlug(ctx, "middle"); return err },
		"posts_by_category": func() error { _, err := svc.PostsByCategory(ctx, "travel"); return err },
		"posts_by_author":   func() error { _, err := svc.PostsByAuthor(ctx, "mike"); return err },
		"categories":        func() error { _, err := svc.Categories(ctx); return err },
		"category":          func() error { _, err := svc.CategoryBySlug(ctx, "travel"); return err },
		"authors":           func() error { _, err := svc.Authors(ctx); return err },
		"author":            func() error { _, err := svc.AuthorBySlug(ctx, "mike"); return err },
	}

	for op, call := range calls {
		t.Run(op, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetchFailed)
			assert.NotContains(t, err.Error(), "500")

			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, op, fetchErr.Op)

			var statusErr *cosmic.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)

			assert.Equal(t, 1.0, testutil.ToFloat64(m.ContentFetches.WithLabelValues(op, metrics.OutcomeError)))
		})
	}
}

func TestContentService_NilMetrics(t *testing.T) {
	client := cosmictest.NewServer(t, blogFixtures()...).ContentClient()
	svc := NewContentService(
		repository.NewPostRepository(client),
		repository.NewAuthorRepository(client),
		repository.NewCategoryRepository(client),
		nil,
	)

	posts, err := svc.Posts(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}
