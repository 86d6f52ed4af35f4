// Package postgres implements the catalog repository on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"posflow/pkg/catalog"
)

// Repository reads the item catalog from PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL catalog repository. The caller must ensure the
// database has the catalog tables:
// CREATE TABLE IF NOT EXISTS categories (id TEXT PRIMARY KEY, category TEXT NOT NULL);
// CREATE TABLE IF NOT EXISTS items (id TEXT PRIMARY KEY, name TEXT NOT NULL, price NUMERIC NOT NULL, category_id TEXT REFERENCES categories(id));
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListItems fetches all items with their category names, ordered by name.
func (r *Repository) ListItems(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT i.id, i.name, i.price, c.category FROM items i JOIN categories c ON i.category_id = c.id ORDER BY i.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []catalog.Item
	for rows.Next() {
		var it catalog.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Category); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListCategories fetches all category names.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT category FROM categories ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
