package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHMACTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(accessTTL, refreshTTL, "kusanagi-test", "kusanagi-test-clients", false, "", "", "test-secret-key-that-is-long-enough", nil)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(time.Minute, time.Hour, "iss", "aud", false, "", "", "", nil)
	assert.Error(t, err)
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newHMACTokenService(t, 15*time.Minute, 24*time.Hour)

	access, refresh, err := svc.GenerateTokens(42)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), accessClaims.UserID)
	assert.Equal(t, "access", accessClaims.TokenType)
	assert.NotEmpty(t, accessClaims.TokenID)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
	assert.NotEqual(t, accessClaims.TokenID, refreshClaims.TokenID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newHMACTokenService(t, 15*time.Minute, 24*time.Hour)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	svc := newHMACTokenService(t, 15*time.Minute, 24*time.Hour)
	other, err := NewTokenService(15*time.Minute, 24*time.Hour, "kusanagi-test", "kusanagi-test-clients", false, "", "", "a-completely-different-secret-key", nil)
	require.NoError(t, err)

	access, _, err := svc.GenerateTokens(7)
	require.NoError(t, err)

	_, err = other.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newHMACTokenService(t, -time.Minute, 24*time.Hour)

	access, _, err := svc.GenerateTokens(7)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken(t *testing.T) {
	svc := newHMACTokenService(t, 15*time.Minute, 24*time.Hour)

	access, refresh, err := svc.GenerateTokens(7)
	require.NoError(t, err)

	t.Run("WithRefreshToken", func(t *testing.T) {
		newAccess, newRefresh, err := svc.RefreshToken(refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)

		claims, err := svc.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
	})

	t.Run("WithAccessToken", func(t *testing.T) {
		_, _, err := svc.RefreshToken(access)
		assert.Error(t, err, "access tokens must not be exchangeable")
	})
}

func TestRevokeToken(t *testing.T) {
	svc := newHMACTokenService(t, 15*time.Minute, 24*time.Hour)

	access, refresh, err := svc.GenerateTokens(7)
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(access))

	require.NoError(t, svc.RevokeToken(access))
	assert.True(t, svc.IsTokenRevoked(access))

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Other tokens stay usable
	assert.False(t, svc.IsTokenRevoked(refresh))
	_, err = svc.ValidateToken(refresh)
	assert.NoError(t, err)

	t.Run("RevokeTwice", func(t *testing.T) {
		assert.NoError(t, svc.RevokeToken(access))
	})

	t.Run("UnparseableTreatedAsRevoked", func(t *testing.T) {
		assert.True(t, svc.IsTokenRevoked("not-a-jwt"))
	})
}
