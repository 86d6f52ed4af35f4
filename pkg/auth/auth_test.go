package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"posflow/pkg/auth"
	"posflow/pkg/auth/memory"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	users := memory.NewUserStore(auth.User{ID: "u1", Email: "cashier@example.com", PasswordHash: string(hash)})
	return auth.NewService(users, memory.NewSessionStore(), time.Hour)
}

func TestSignInAndCurrentUser(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sid, err := svc.SignIn(ctx, "cashier@example.com", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	u, err := svc.CurrentUser(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "cashier@example.com", u.Email)
}

func TestSignInWrongPassword(t *testing.T) {
	svc := newService(t)
	_, err := svc.SignIn(context.Background(), "cashier@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignInUnknownEmailIsIndistinguishable(t *testing.T) {
	svc := newService(t)
	_, err := svc.SignIn(context.Background(), "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignOutEndsSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sid, err := svc.SignIn(ctx, "cashier@example.com", "hunter2")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, sid))

	_, err = svc.CurrentUser(ctx, sid)
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestCurrentUserUnknownSession(t *testing.T) {
	svc := newService(t)
	_, err := svc.CurrentUser(context.Background(), "bogus")
	assert.ErrorIs(t, err, auth.ErrNoSession)
}
