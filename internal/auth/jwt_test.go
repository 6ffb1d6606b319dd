package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("usr-1", "alice@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "stockly", claims.Issuer)
}

func TestJWTManager_RefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("usr-1")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", claims.UserID)
}

func TestJWTManager_ExpiredAccessToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("usr-1", "alice@example.com", "user")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	assert.Nil(t, claims)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse access token")
}

func TestJWTManager_WrongSecretRejected(t *testing.T) {
	m := newTestManager()
	other := NewJWTManager("a-different-secret", 15*time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("usr-1", "alice@example.com", "user")
	require.NoError(t, err)

	claims, err := other.ValidateAccessToken(token)
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestJWTManager_RefreshTokenNotValidAsAccess(t *testing.T) {
	m := newTestManager()

	refresh, err := m.GenerateRefreshToken("usr-1")
	require.NoError(t, err)

	// A refresh token parses as access claims but carries no email or role.
	claims, err := m.ValidateAccessToken(refresh)
	require.NoError(t, err)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Role)
}

func TestJWTManager_GarbageTokenRejected(t *testing.T) {
	m := newTestManager()

	claims, err := m.ValidateAccessToken("not.a.token")
	assert.Nil(t, claims)
	assert.Error(t, err)
}
