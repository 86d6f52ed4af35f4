// Package memory implements in-memory user and session stores.
package memory

import (
	"context"
	"sync"
	"time"

	"posflow/pkg/auth"
)

// UserStore provides an in-memory implementation of auth.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]auth.User
}

// NewUserStore creates a user store seeded with the given users, keyed by
// email.
func NewUserStore(users ...auth.User) *UserStore {
	m := make(map[string]auth.User, len(users))
	for _, u := range users {
		m[u.Email] = u
	}
	return &UserStore{users: m}
}

// ByEmail retrieves a user by email.
func (s *UserStore) ByEmail(ctx context.Context, email string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

// SessionStore provides an in-memory implementation of auth.SessionStore.
// TTLs are ignored; tests drive expiry explicitly via Del.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]string)}
}

func (s *SessionStore) Put(ctx context.Context, sid, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = email
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.sessions[sid]
	if !ok {
		return "", auth.ErrNoSession
	}
	return email, nil
}

func (s *SessionStore) Del(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}
