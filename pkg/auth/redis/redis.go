// Package redis implements the session store on Redis.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"posflow/pkg/auth"
)

// SessionStore keeps sessions in Redis under session:<sid> keys.
type SessionStore struct {
	client *redis.Client
}

// New creates a Redis-backed session store.
func New(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Put(ctx context.Context, sid, email string, ttl time.Duration) error {
	return s.client.Set(ctx, "session:"+sid, email, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, sid string) (string, error) {
	email, err := s.client.Get(ctx, "session:"+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", auth.ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

func (s *SessionStore) Del(ctx context.Context, sid string) error {
	return s.client.Del(ctx, "session:"+sid).Err()
}
