// Package postgres implements the user store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"posflow/pkg/auth"
)

// UserStore reads users from PostgreSQL.
type UserStore struct {
	db *sql.DB
}

// New creates a PostgreSQL user store. The caller must ensure the database
// has a users table:
// CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, email TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL);
func New(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// ByEmail retrieves a user by email.
func (s *UserStore) ByEmail(ctx context.Context, email string) (auth.User, error) {
	var u auth.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash FROM users WHERE email=$1", email).
		Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, err
}
