package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Item is one sellable menu entry. Items are immutable once fetched; the
// cart copies the fields it needs at add time, so a later catalog change
// never affects lines already in a cart.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Validate rejects records that must not enter the core. Called at the
// repository boundary, not on every read.
func (i Item) Validate() error {
	if i.ID == "" {
		return errors.New("item id is empty")
	}
	if i.Price < 0 {
		return fmt.Errorf("item %s: negative price %v", i.ID, i.Price)
	}
	return nil
}

// Repository defines behavior for fetching the item catalog.
type Repository interface {
	ListItems(ctx context.Context) ([]Item, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// ErrNotFound indicates the requested item does not exist in the snapshot.
var ErrNotFound = errors.New("item not found")

// CategoryAll matches every item regardless of category. The sentinel is
// case-sensitive: "all" is an ordinary category name.
const CategoryAll = "All"
