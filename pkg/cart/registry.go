package cart

import "sync"

// Registry maps session ids to carts. A cart is created empty the first
// time a session touches it and dropped on sign-out.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// Get returns the cart for sessionID, creating it if needed.
func (r *Registry) Get(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[sessionID]
	if !ok {
		c = New()
		r.carts[sessionID] = c
	}
	return c
}

// Drop discards the cart for sessionID.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}
