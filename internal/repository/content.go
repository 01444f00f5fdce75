package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/templui/cosmicblog/internal/cosmic"
)

var (
	ErrNotFound = errors.New("content not found")
)

// relationDepth expands embedded author/category objects one level.
const relationDepth = 1

var (
	postProps  = []string{"id", "title", "slug", "type", "status", "metadata", "created_at", "published_at"}
	entryProps = []string{"id", "title", "slug", "type", "metadata", "thumbnail", "created_at"}
)

// ContentAPI is the subset of the bucket client the repositories need.
type ContentAPI interface {
	Find(ctx context.Context, q cosmic.Query) (*cosmic.ListResponse, error)
	FindOne(ctx context.Context, q cosmic.Query) (*cosmic.SingleResponse, error)
}

// findAll decodes every matching object; a 404 means an empty result.
func findAll[T any](ctx context.Context, api ContentAPI, q cosmic.Query) ([]*T, error) {
	resp, err := api.Find(ctx, q)
	if err != nil {
		if cosmic.IsNotFound(err) {
			return []*T{}, nil
		}
		return nil, err
	}

	items := make([]*T, 0, len(resp.Objects))
	for _, raw := range resp.Objects {
		item := new(T)
		err = json.Unmarshal(raw, item)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", q.Type, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// findOne decodes a single object; a 404 or null object is ErrNotFound.
func findOne[T any](ctx context.Context, api ContentAPI, q cosmic.Query) (*T, error) {
	resp, err := api.FindOne(ctx, q)
	if err != nil {
		if cosmic.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if resp.Object == nil {
		return nil, ErrNotFound
	}

	item := new(T)
	err = json.Unmarshal(resp.Object, item)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", q.Type, err)
	}
	return item, nil
}
