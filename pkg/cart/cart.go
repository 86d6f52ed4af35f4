// Package cart holds the in-memory order cart aggregate: an ordered list of
// (item, quantity) lines with merge-on-add semantics and derived totals.
package cart

import (
	"sync"

	"posflow/pkg/catalog"
)

// Line is one (item, quantity) pairing in the cart. Item is a value copy
// taken at add time; quantity is always >= 1 while the line exists.
type Line struct {
	Item     catalog.Item `json:"item"`
	Quantity int          `json:"quantity"`
}

// Cart is the authoritative cart state for one browsing session. It is
// single-owner; the mutex exists only because the HTTP runtime may deliver
// one session's requests on different goroutines. Lines keep first-add
// order, and no two lines share an item id.
type Cart struct {
	mu      sync.Mutex
	lines   []Line
	subs    map[int]func()
	nextSub int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{subs: make(map[int]func())}
}

// Add puts one unit of item in the cart. If a line for item.ID already
// exists its quantity is incremented, otherwise a new line is appended with
// quantity 1. Add never fails.
func (c *Cart) Add(item catalog.Item) {
	c.mu.Lock()
	for i := range c.lines {
		if c.lines[i].Item.ID == item.ID {
			c.lines[i].Quantity++
			c.mu.Unlock()
			c.notify()
			return
		}
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1})
	c.mu.Unlock()
	c.notify()
}

// SetQuantity sets the line for itemID to exactly quantity. A quantity of
// zero or less removes the line. A missing itemID is a no-op: callers only
// reach this through lines they are already displaying.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.Remove(itemID)
		return
	}
	c.mu.Lock()
	changed := false
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines[i].Quantity = quantity
			changed = true
			break
		}
	}
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// Remove deletes the line for itemID. Removing an absent id is a no-op.
func (c *Cart) Remove(itemID string) {
	c.mu.Lock()
	changed := false
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			changed = true
			break
		}
	}
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	cleared := len(c.lines) > 0
	c.lines = nil
	c.mu.Unlock()
	if cleared {
		c.notify()
	}
}

// Total returns Σ(price × quantity), recomputed on every call.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, l := range c.lines {
		total += l.Item.Price * float64(l.Quantity)
	}
	return total
}

// LineCount returns the number of distinct item lines.
func (c *Cart) LineCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// ItemCount returns the total unit count, Σ quantity across lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the lines in first-add order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return c.LineCount() == 0
}

// Subscribe registers fn to run after every mutation and returns a function
// that removes the subscription. Consumers re-derive their view from the
// cart rather than the cart pushing state at them.
func (c *Cart) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// notify runs outside the lock so subscribers may read the cart.
func (c *Cart) notify() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
