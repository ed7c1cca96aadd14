package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "s3cret"))
}

func TestJWTRoundTrip(t *testing.T) {
	tok, err := SignJWT("admin@example.com", "k", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(tok, "k")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, adminRole, claims.Role)
}

func TestJWTRejects(t *testing.T) {
	tok, err := SignJWT("a", "k", time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(tok, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := SignJWT("a", "k", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "k")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseJWT("garbage", "k")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
