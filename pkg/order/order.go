package order

import (
	"context"
	"errors"
	"time"
)

// FulfillmentType governs whether a delivery address is required.
type FulfillmentType string

const (
	DineIn   FulfillmentType = "dine-in"
	Takeaway FulfillmentType = "takeaway"
)

// Valid reports whether t is a known fulfillment type.
func (t FulfillmentType) Valid() bool {
	return t == DineIn || t == Takeaway
}

// Order is the persisted order header.
type Order struct {
	ID              string          `json:"id"`
	Type            FulfillmentType `json:"type"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	AdditionalNotes string          `json:"additional_notes,omitempty"`
	TotalAmount     float64         `json:"total_amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Line is one persisted order line. Name and Price are the values the item
// carried when it was added to the cart, not the live catalog values.
type Line struct {
	OrderID  string  `json:"order_id"`
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Submitter defines behavior for persisting orders. Header and lines are
// two separate writes, mirroring the backing service's surface; callers
// treat a failure of either as failure of the whole submission.
type Submitter interface {
	CreateOrder(ctx context.Context, o Order) error
	CreateOrderItems(ctx context.Context, orderID string, lines []Line) error
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")
