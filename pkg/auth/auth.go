// Package auth verifies credentials and tracks signed-in sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an authenticated operator of the point of sale.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// UserStore defines behavior for looking up users.
type UserStore interface {
	ByEmail(ctx context.Context, email string) (User, error)
}

// SessionStore defines behavior for session persistence. Keys are session
// ids, values are user emails.
type SessionStore interface {
	Put(ctx context.Context, sid, email string, ttl time.Duration) error
	Get(ctx context.Context, sid string) (string, error)
	Del(ctx context.Context, sid string) error
}

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so a caller cannot probe which of the two failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSession indicates the session id is unknown or expired.
	ErrNoSession = errors.New("no such session")
	// ErrUserNotFound indicates no user exists for the given email.
	ErrUserNotFound = errors.New("user not found")
)

// Service authenticates users and manages their sessions.
type Service struct {
	users    UserStore
	sessions SessionStore
	ttl      time.Duration
}

// NewService creates an auth service. Sessions live for ttl.
func NewService(users UserStore, sessions SessionStore, ttl time.Duration) *Service {
	return &Service{users: users, sessions: sessions, ttl: ttl}
}

// SignIn verifies the password and creates a session, returning its id.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	sid := uuid.NewString()
	if err := s.sessions.Put(ctx, sid, u.Email, s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sid, nil
}

// SignOut removes the session.
func (s *Service) SignOut(ctx context.Context, sid string) error {
	return s.sessions.Del(ctx, sid)
}

// CurrentUser resolves the user behind a session id.
func (s *Service) CurrentUser(ctx context.Context, sid string) (User, error) {
	email, err := s.sessions.Get(ctx, sid)
	if err != nil {
		return User{}, err
	}
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return User{}, fmt.Errorf("look up user: %w", err)
	}
	return u, nil
}

// TTL returns the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
