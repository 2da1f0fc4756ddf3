package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorforge/backend/config"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(setupTestDB(t), config.JWTConfig{
		Secret: "test-secret",
		TTL:    time.Hour,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	token, err = svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Alice", "alice@example.com", "different")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)

	user, err := svc.GetUser(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	token, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	other := NewAuthService(setupTestDB(t), config.JWTConfig{Secret: "other-secret", TTL: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
