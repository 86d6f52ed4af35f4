package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"posflow/pkg/order"
)

func TestSubmitter(t *testing.T) {
	ctx := context.Background()
	sub := New()
	o := order.Order{ID: "1", Type: order.DineIn, TotalAmount: 250, CreatedAt: time.Now()}
	if err := sub.CreateOrder(ctx, o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	lines := []order.Line{{OrderID: "1", ItemID: "a", Name: "Green Tea", Price: 125, Quantity: 2}}
	if err := sub.CreateOrderItems(ctx, "1", lines); err != nil {
		t.Fatalf("create order items: %v", err)
	}
	got, err := sub.Order("1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalAmount != 250 {
		t.Fatalf("expected total 250, got %v", got.TotalAmount)
	}
	if n := len(sub.Lines("1")); n != 1 {
		t.Fatalf("expected 1 line, got %d", n)
	}
	if _, err := sub.Order("missing"); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitterInjectedFailure(t *testing.T) {
	ctx := context.Background()
	sub := New()
	sub.FailCreateOrder = errors.New("boom")
	if err := sub.CreateOrder(ctx, order.Order{ID: "1"}); err == nil {
		t.Fatal("expected injected failure")
	}
	if sub.OrderCount() != 0 {
		t.Fatal("failed create must not store the order")
	}
}
