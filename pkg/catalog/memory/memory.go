// Package memory implements an in-memory catalog repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"posflow/pkg/catalog"
)

// Repository provides an in-memory implementation of catalog.Repository,
// used in tests and local development.
type Repository struct {
	mu         sync.RWMutex
	items      []catalog.Item
	categories []string
}

// New creates a repository seeded with the given items and categories.
func New(items []catalog.Item, categories []string) *Repository {
	return &Repository{items: items, categories: categories}
}

// ListItems returns the seeded items ordered by name, matching the SQL
// repository's ordering.
func (r *Repository) ListItems(ctx context.Context) ([]catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Item, len(r.items))
	copy(out, r.items)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListCategories returns the seeded category names.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out, nil
}
