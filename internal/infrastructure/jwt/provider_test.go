package jwtinfra

import (
	"testing"
	"time"

	"github.com/quranara/api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(t *testing.T, expiry time.Duration) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{JWTSecret: "test-secret", TokenExpiry: expiry})
	require.NoError(t, err)
	return p
}

func TestNewProvider_MissingSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{TokenExpiry: time.Hour})
	assert.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := testProvider(t, time.Hour)

	token, err := p.Sign("01ARZ3NDEKTSV4RRFFQ69G5FAV", "admin")
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerify_ExpiredToken(t *testing.T) {
	p := testProvider(t, -time.Second)

	token, err := p.Sign("u1", "user")
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	p := testProvider(t, time.Hour)
	token, err := p.Sign("u1", "user")
	require.NoError(t, err)

	other, err := NewProvider(&config.Config{JWTSecret: "other-secret", TokenExpiry: time.Hour})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Malformed(t *testing.T) {
	p := testProvider(t, time.Hour)
	_, err := p.Verify("not.a.jwt")
	assert.Error(t, err)
}
