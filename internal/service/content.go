package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/templui/cosmicblog/internal/metrics"
	"github.com/templui/cosmicblog/internal/model"
	"github.com/templui/cosmicblog/internal/repository"
)

var ErrFetchFailed = errors.New("failed to fetch content")

// FetchError is what callers see when the content source fails for a reason
// other than absence. The message stays generic; Unwrap exposes the cause.
type FetchError struct {
	Op       string
	Resource string
	Slug     string
	Err      error
}

func (e *FetchError) Error() string {
	return "failed to fetch " + e.Resource
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

type ContentService struct {
	posts      repository.PostRepository
	authors    repository.AuthorRepository
	categories repository.CategoryRepository
	metrics    *metrics.Metrics
}

func NewContentService(
	posts repository.PostRepository,
	authors repository.AuthorRepository,
	categories repository.CategoryRepository,
	m *metrics.Metrics,
) *ContentService {
	return &ContentService{
		posts:      posts,
		authors:    authors,
		categories: categories,
		metrics:    m,
	}
}

// Posts returns every post, newest first.
func (s *ContentService) Posts(ctx context.Context) ([]*model.Post, error) {
	start := time.Now()
	posts, err := s.posts.Posts(ctx)
	if err != nil {
		return nil, s.fail(ctx, "posts", "posts", "", start, err)
	}
	sortPostsNewestFirst(posts)
	s.observe("posts", metrics.OutcomeOK, start)
	return posts, nil
}

// PostBySlug returns nil without error when no post has the slug.
func (s *ContentService) PostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	start := time.Now()
	post, err := s.posts.BySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		s.observe("post", metrics.OutcomeAbsent, start)
		return nil, nil
	}
	if err != nil {
		return nil, s.fail(ctx, "post", "post", slug, start, err)
	}
	s.observe("post", metrics.OutcomeOK, start)
	return post, nil
}

// PostsByCategory returns the posts of the category with the given slug,
// newest first. An unknown category yields an empty list.
func (s *ContentService) PostsByCategory(ctx context.Context, categorySlug string) ([]*model.Post, error) {
	start := time.Now()
	category, err := s.categories.BySlug(ctx, categorySlug)
	if errors.Is(err, repository.ErrNotFound) {
		s.observe("posts_by_category", metrics.OutcomeAbsent, start)
		return []*model.Post{}, nil
	}
	if err != nil {
		return nil, s.fail(ctx, "posts_by_category", "posts", categorySlug, start, err)
	}

	posts, err := s.posts.ByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, s.fail(ctx, "posts_by_category", "posts", categorySlug, start, err)
	}
	sortPostsNewestFirst(posts)
	s.observe("posts_by_category", metrics.OutcomeOK, start)
	return posts, nil
}

// PostsByAuthor mirrors PostsByCategory for authors.
func (s *ContentService) PostsByAuthor(ctx context.Context, authorSlug string) ([]*model.Post, error) {
	start := time.Now()
	author, err := s.authors.BySlug(ctx, authorSlug)
	if errors.Is(err, repository.ErrNotFound) {
		s.observe("posts_by_author", metrics.OutcomeAbsent, start)
		return []*model.Post{}, nil
	}
	if err != nil {
		return nil, s.fail(ctx, "posts_by_author", "posts", authorSlug, start, err)
	}

	posts, err := s.posts.ByAuthorID(ctx, author.ID)
	if err != nil {
		return nil, s.fail(ctx, "posts_by_author", "posts", authorSlug, start, err)
	}
	sortPostsNewestFirst(posts)
	s.observe("posts_by_author", metrics.OutcomeOK, start)
	return posts, nil
}

// Categories returns every category ordered by display name.
func (s *ContentService) Categories(ctx context.Context) ([]*model.Category, error) {
	start := time.Now()
	categories, err := s.categories.Categories(ctx)
	if err != nil {
		return nil, s.fail(ctx, "categories", "categories", "", start, err)
	}
	sortByName(categories, func(c *model.Category) string { return c.Metadata.Name })
	s.observe("categories", metrics.OutcomeOK, start)
	return categories, nil
}

func (s *ContentService) CategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	start := time.Now()
	category, err := s.categories.BySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		s.observe("category", metrics.OutcomeAbsent, start)
		return nil, nil
	}
	if err != nil {
		return nil, s.fail(ctx, "category", "category", slug, start, err)
	}
	s.observe("category", metrics.OutcomeOK, start)
	return category, nil
}

// Authors returns every author ordered by display name.
func (s *ContentService) Authors(ctx context.Context) ([]*model.Author, error) {
	start := time.Now()
	authors, err := s.authors.Authors(ctx)
	if err != nil {
		return nil, s.fail(ctx, "authors", "authors", "", start, err)
	}
	sortByName(authors, func(a *model.Author) string { return a.Metadata.Name })
	s.observe("authors", metrics.OutcomeOK, start)
	return authors, nil
}

func (s *ContentService) AuthorBySlug(ctx context.Context, slug string) (*model.Author, error) {
	start := time.Now()
	author, err := s.authors.BySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		s.observe("author", metrics.OutcomeAbsent, start)
		return nil, nil
	}
	if err != nil {
		return nil, s.fail(ctx, "author", "author", slug, start, err)
	}
	s.observe("author", metrics.OutcomeOK, start)
	return author, nil
}

func (s *ContentService) observe(op, outcome string, start time.Time) {
	s.metrics.ObserveContent(op, outcome, start)
}

func (s *ContentService) fail(ctx context.Context, op, resource, slug string, start time.Time, err error) error {
	s.observe(op, metrics.OutcomeError, start)
	slog.ErrorContext(ctx, "failed to fetch content", "error", err, "op", op, "slug", slug)
	return &FetchError{Op: op, Resource: resource, Slug: slug, Err: err}
}

func sortPostsNewestFirst(posts []*model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].EffectiveDate().After(posts[j].EffectiveDate())
	})
}

// sortByName orders items by the English collation of name(item). Missing
// names sort as "". A collator is not safe for concurrent use, so each call
// builds its own.
func sortByName[T any](items []T, name func(T) string) {
	c := collate.New(language.English)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(name(items[i]), name(items[j])) < 0
	})
}
