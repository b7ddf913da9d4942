package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokens(t *testing.T) {
	t.Run("round trip carries role and type claims", func(t *testing.T) {
		token, err := GenerateSessionToken("admin", "secret", time.Hour)
		require.NoError(t, err)

		claims, err := ValidateJWT(token, "secret")
		require.NoError(t, err)
		assert.Equal(t, "admin", claims["role"])
		assert.Equal(t, "admin_session", claims["type"])
		assert.NotEmpty(t, claims["jti"])
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := GenerateSessionToken("admin", "secret", time.Hour)
		require.NoError(t, err)

		_, err = ValidateJWT(token, "other")
		assert.Error(t, err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := GenerateSessionToken("admin", "secret", -time.Minute)
		require.NoError(t, err)

		_, err = ValidateJWT(token, "secret")
		assert.Error(t, err)
	})

	t.Run("tokens carry unique identifiers", func(t *testing.T) {
		first, err := GenerateSessionToken("admin", "secret", time.Hour)
		require.NoError(t, err)
		second, err := GenerateSessionToken("admin", "secret", time.Hour)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestVerifyAdminPassword(t *testing.T) {
	t.Run("bcrypt credential", func(t *testing.T) {
		hash, err := HashPassword("hunter2")
		require.NoError(t, err)

		assert.True(t, VerifyAdminPassword("hunter2", hash))
		assert.False(t, VerifyAdminPassword("wrong", hash))
	})

	t.Run("plaintext fallback", func(t *testing.T) {
		assert.True(t, VerifyAdminPassword("hunter2", "hunter2"))
		assert.False(t, VerifyAdminPassword("wrong", "hunter2"))
		assert.False(t, VerifyAdminPassword("hunter2-and-more", "hunter2"))
	})

	t.Run("empty values never verify", func(t *testing.T) {
		assert.False(t, VerifyAdminPassword("", ""))
		assert.False(t, VerifyAdminPassword("hunter2", ""))
		assert.False(t, VerifyAdminPassword("", "hunter2"))
	})
}

func TestGenerateSecureKey(t *testing.T) {
	key, err := GenerateSecureKey(64)
	require.NoError(t, err)
	assert.Len(t, key, 64)

	other, err := GenerateSecureKey(64)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}
