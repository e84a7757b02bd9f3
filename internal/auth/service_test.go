package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(Config{
		Enabled:      true,
		Username:     "frontdesk",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		TokenExpiry:  time.Hour,
	})
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, "frontdesk", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "frontdesk", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "frontdesk", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "someone", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestService(t)
	other := NewService(Config{
		Username:     "frontdesk",
		PasswordHash: svc.(*service).cfg.PasswordHash,
		JWTSecret:    "another-secret",
		TokenExpiry:  time.Hour,
	})

	resp, err := other.Login(context.Background(), "frontdesk", "s3cret")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestService(t).(*service)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	resp, err := svc.Login(context.Background(), "frontdesk", "s3cret")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("pw")))
}
