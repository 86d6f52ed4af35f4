package catalog

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Service serves an immutable-per-fetch snapshot of the catalog. The
// snapshot is fetched once and reused until Refresh; concurrent first
// fetches are collapsed with singleflight so the repository sees a single
// query.
type Service struct {
	repo Repository
	sfg  singleflight.Group

	mu         sync.RWMutex
	items      []Item
	categories []string
}

// NewService creates a catalog service over the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Snapshot returns the current item snapshot, fetching it on first use.
// The returned slice is shared and must not be mutated by callers.
func (s *Service) Snapshot(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	items := s.items
	s.mu.RUnlock()
	if items != nil {
		return items, nil
	}

	v, err, _ := s.sfg.Do("items", func() (interface{}, error) {
		fetched, err := s.repo.ListItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch items: %w", err)
		}
		for _, it := range fetched {
			if err := it.Validate(); err != nil {
				return nil, fmt.Errorf("fetch items: %w", err)
			}
		}
		s.mu.Lock()
		s.items = fetched
		s.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Item), nil
}

// Categories returns the category names with the CategoryAll sentinel
// prepended, fetching on first use.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	cats := s.categories
	s.mu.RUnlock()
	if cats != nil {
		return cats, nil
	}

	v, err, _ := s.sfg.Do("categories", func() (interface{}, error) {
		fetched, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch categories: %w", err)
		}
		all := append([]string{CategoryAll}, fetched...)
		s.mu.Lock()
		s.categories = all
		s.mu.Unlock()
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Item resolves a single item from the snapshot by id.
func (s *Service) Item(ctx context.Context, id string) (Item, error) {
	items, err := s.Snapshot(ctx)
	if err != nil {
		return Item{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

// Refresh drops the cached snapshot so the next read refetches.
func (s *Service) Refresh() {
	s.mu.Lock()
	s.items = nil
	s.categories = nil
	s.mu.Unlock()
}
