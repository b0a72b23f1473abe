package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginRoundtrip(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour, "admin", "s3cret")

	token, err := svc.Login("admin", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
}

func TestAuthService_RejectsBadCredentials(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour, "admin", "s3cret")

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("intruder", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RejectsGarbageToken(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour, "admin", "s3cret")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestAuthService_RejectsForeignSignature(t *testing.T) {
	issuer := NewAuthService("other-secret", time.Hour, "admin", "s3cret")
	token, err := issuer.Login("admin", "s3cret")
	require.NoError(t, err)

	svc := NewAuthService("test-secret", time.Hour, "admin", "s3cret")
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_RejectsExpiredToken(t *testing.T) {
	svc := NewAuthService("test-secret", -time.Minute, "admin", "s3cret")

	token, err := svc.Login("admin", "s3cret")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
