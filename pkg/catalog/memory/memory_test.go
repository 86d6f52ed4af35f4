package memory

import (
	"context"
	"testing"

	"posflow/pkg/catalog"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New([]catalog.Item{
		{ID: "2", Name: "Iced Tea", Price: 120, Category: "Beverages"},
		{ID: "1", Name: "Green Tea", Price: 100, Category: "Beverages"},
	}, []string{"Beverages"})

	items, err := repo.ListItems(ctx)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Green Tea" {
		t.Fatalf("expected name ordering, got %s first", items[0].Name)
	}

	cats, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 1 || cats[0] != "Beverages" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}
