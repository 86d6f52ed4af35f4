// Package memory implements an in-memory order submitter.
package memory

import (
	"context"
	"sync"

	"posflow/pkg/order"
)

// Submitter provides an in-memory implementation of order.Submitter, used
// in tests. FailCreateOrder and FailCreateItems inject write failures.
type Submitter struct {
	mu     sync.Mutex
	orders map[string]order.Order
	lines  map[string][]order.Line

	FailCreateOrder error
	FailCreateItems error
}

// New creates a new in-memory submitter.
func New() *Submitter {
	return &Submitter{
		orders: make(map[string]order.Order),
		lines:  make(map[string][]order.Line),
	}
}

// CreateOrder stores the order header.
func (s *Submitter) CreateOrder(ctx context.Context, o order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreateOrder != nil {
		return s.FailCreateOrder
	}
	s.orders[o.ID] = o
	return nil
}

// CreateOrderItems stores the order lines.
func (s *Submitter) CreateOrderItems(ctx context.Context, orderID string, lines []order.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreateItems != nil {
		return s.FailCreateItems
	}
	s.lines[orderID] = append([]order.Line(nil), lines...)
	return nil
}

// Order retrieves a stored order header by id.
func (s *Submitter) Order(id string) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

// Lines retrieves the stored lines for an order id.
func (s *Submitter) Lines(id string) []order.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]order.Line(nil), s.lines[id]...)
}

// OrderCount returns the number of stored order headers.
func (s *Submitter) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
