package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	access, err := m.GenerateToken("admin")
	require.NoError(t, err)
	claims, err := m.ValidateToken(access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, err = m.ValidateToken(access, TokenRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "access token is not a refresh token")

	refresh, err := m.GenerateRefreshToken("admin")
	require.NoError(t, err)
	_, err = m.ValidateToken(refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignAndExpiredTokens(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Hour)
	other := NewJWTManager("other", time.Hour, time.Hour)

	foreign, err := other.GenerateToken("admin")
	require.NoError(t, err)
	_, err = m.ValidateToken(foreign, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := m.GenerateToken("admin")
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.ValidateToken(token, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("garbage", TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("s3cret", ""))
}
