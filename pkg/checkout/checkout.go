// Package checkout drives an order from the cart to the order store.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"posflow/pkg/cart"
	"posflow/pkg/notify"
	"posflow/pkg/order"
)

// State of a checkout flow. A failed submission returns to StateEditing
// with all field values preserved so the user can retry.
type State int

const (
	StateEditing State = iota
	StateSubmitting
)

// Metadata is the order information collected during checkout. It is reset
// to defaults after a successful submission.
type Metadata struct {
	Type            order.FulfillmentType `json:"type"`
	DeliveryAddress string                `json:"delivery_address"`
	AdditionalNotes string                `json:"additional_notes"`
	TotalAmount     float64               `json:"total_amount"`
}

func defaultMetadata() Metadata {
	return Metadata{Type: order.DineIn}
}

var (
	// ErrEmptyCart blocks checkout entry and submission on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmitting rejects a submit while one is already in flight.
	ErrSubmitting = errors.New("submission already in progress")
	// ErrAddressRequired is the local validation failure for takeaway
	// orders without a usable delivery address. It never reaches the
	// order store.
	ErrAddressRequired = errors.New("delivery address required for takeaway")
	// ErrInvalidType rejects unknown fulfillment types at the boundary.
	ErrInvalidType = errors.New("invalid fulfillment type")
)

// Flow is the checkout state machine for one session's cart.
type Flow struct {
	mu       sync.Mutex
	state    State
	meta     Metadata
	cart     *cart.Cart
	orders   order.Submitter
	notifier notify.Notifier
}

// NewFlow creates a checkout flow in the editing state with default
// metadata (dine-in, no address, no notes).
func NewFlow(c *cart.Cart, orders order.Submitter, notifier notify.Notifier) *Flow {
	return &Flow{meta: defaultMetadata(), cart: c, orders: orders, notifier: notifier}
}

// Enter checks the entry guard: checkout is not reachable with an empty
// cart. Identity is guarded one layer up, before the flow is looked up.
func (f *Flow) Enter() error {
	if f.cart.Empty() {
		return ErrEmptyCart
	}
	return nil
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Metadata returns a copy of the current order metadata.
func (f *Flow) Metadata() Metadata {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meta
}

// SetType switches the fulfillment type. Switching away from takeaway
// keeps the entered address but stops requiring it.
func (f *Flow) SetType(t order.FulfillmentType) error {
	if !t.Valid() {
		return ErrInvalidType
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateEditing {
		return ErrSubmitting
	}
	f.meta.Type = t
	return nil
}

// SetDeliveryAddress records the delivery address.
func (f *Flow) SetDeliveryAddress(addr string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateEditing {
		return ErrSubmitting
	}
	f.meta.DeliveryAddress = addr
	return nil
}

// SetNotes records the optional order notes.
func (f *Flow) SetNotes(notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateEditing {
		return ErrSubmitting
	}
	f.meta.AdditionalNotes = notes
	return nil
}

// CanSubmit reports whether Submit would pass its guards: not already
// submitting, cart non-empty, and a non-blank address when the order is
// takeaway.
func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == StateEditing && !f.cart.Empty() && f.validateLocked() == nil
}

func (f *Flow) validateLocked() error {
	if f.meta.Type == order.Takeaway && strings.TrimSpace(f.meta.DeliveryAddress) == "" {
		return ErrAddressRequired
	}
	return nil
}

// Submit snapshots the cart and writes the order header followed by its
// lines. Header total and lines come from the same snapshot, so a cart
// edit racing the submission cannot make them disagree. Either write
// failing fails the whole submission and returns the flow to editing with
// field values intact; a header already written stays written (no rollback
// across the two calls). On success the cart is cleared, metadata resets
// to defaults, and a success notification fires.
func (f *Flow) Submit(ctx context.Context) (order.Order, error) {
	f.mu.Lock()
	if f.state != StateEditing {
		f.mu.Unlock()
		return order.Order{}, ErrSubmitting
	}
	if f.cart.Empty() {
		f.mu.Unlock()
		return order.Order{}, ErrEmptyCart
	}
	if err := f.validateLocked(); err != nil {
		f.mu.Unlock()
		return order.Order{}, err
	}
	f.state = StateSubmitting
	lines := f.cart.Lines()
	var total float64
	for _, l := range lines {
		total += l.Item.Price * float64(l.Quantity)
	}
	f.meta.TotalAmount = total
	meta := f.meta
	f.mu.Unlock()

	o := order.Order{
		ID:              uuid.NewString(),
		Type:            meta.Type,
		AdditionalNotes: meta.AdditionalNotes,
		TotalAmount:     meta.TotalAmount,
		CreatedAt:       time.Now().UTC(),
	}
	if meta.Type == order.Takeaway {
		o.DeliveryAddress = strings.TrimSpace(meta.DeliveryAddress)
	}

	if err := f.orders.CreateOrder(ctx, o); err != nil {
		f.fail()
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}
	items := make([]order.Line, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.Line{
			OrderID:  o.ID,
			ItemID:   l.Item.ID,
			Name:     l.Item.Name,
			Price:    l.Item.Price,
			Quantity: l.Quantity,
		})
	}
	if err := f.orders.CreateOrderItems(ctx, o.ID, items); err != nil {
		f.fail()
		return order.Order{}, fmt.Errorf("create order items: %w", err)
	}

	f.cart.Clear()
	f.mu.Lock()
	f.meta = defaultMetadata()
	f.state = StateEditing
	f.mu.Unlock()
	f.notifier.Success("Order placed successfully!")
	return o, nil
}

func (f *Flow) fail() {
	f.mu.Lock()
	f.state = StateEditing
	f.mu.Unlock()
	f.notifier.Failure("Failed to place order")
}

// Registry maps session ids to checkout flows so the busy-state guard
// holds across concurrent requests from one session.
type Registry struct {
	mu    sync.Mutex
	flows map[string]*Flow

	orders   order.Submitter
	notifier notify.Notifier
}

// NewRegistry returns an empty flow registry sharing one submitter and one
// notifier across sessions.
func NewRegistry(orders order.Submitter, notifier notify.Notifier) *Registry {
	return &Registry{flows: make(map[string]*Flow), orders: orders, notifier: notifier}
}

// Get returns the flow for sessionID bound to c, creating it if needed.
func (r *Registry) Get(sessionID string, c *cart.Cart) *Flow {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[sessionID]
	if !ok || f.cart != c {
		f = NewFlow(c, r.orders, r.notifier)
		r.flows[sessionID] = f
	}
	return f
}

// Drop discards the flow for sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, sessionID)
}
