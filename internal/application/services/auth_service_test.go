package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliostack/foliostack-go/internal/domain/faults"
	"github.com/foliostack/foliostack-go/internal/infrastructure/security"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService("test-secret", "hunter2", time.Hour, newTestLogger(t))
}

func TestAuthServiceLogin(t *testing.T) {
	t.Run("issues an admin session for the correct password", func(t *testing.T) {
		auth := newTestAuth(t)
		session, err := auth.Login("hunter2")
		require.NoError(t, err)
		assert.Equal(t, "admin", session.Role)
		assert.NotEmpty(t, session.Token)
		assert.True(t, session.ExpiresAt.After(time.Now().UTC()))
	})

	t.Run("accepts a bcrypt credential", func(t *testing.T) {
		hash, err := security.HashPassword("hunter2")
		require.NoError(t, err)
		auth := NewAuthService("test-secret", hash, time.Hour, newTestLogger(t))

		_, err = auth.Login("hunter2")
		require.NoError(t, err)
	})

	t.Run("rejects a wrong password with an auth error", func(t *testing.T) {
		auth := newTestAuth(t)
		_, err := auth.Login("wrong")
		var aerr *faults.AuthError
		require.ErrorAs(t, err, &aerr)
	})
}

func TestAuthServiceGetSession(t *testing.T) {
	auth := newTestAuth(t)

	t.Run("empty token is absent, not an error", func(t *testing.T) {
		session, err := auth.GetSession("")
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("garbage token is absent, not an error", func(t *testing.T) {
		session, err := auth.GetSession("not-a-jwt")
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("issued token resolves to the session", func(t *testing.T) {
		issued, err := auth.Login("hunter2")
		require.NoError(t, err)

		session, err := auth.GetSession(issued.Token)
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "admin", session.Role)
	})

	t.Run("token signed with another secret is absent", func(t *testing.T) {
		other := NewAuthService("other-secret", "hunter2", time.Hour, newTestLogger(t))
		issued, err := other.Login("hunter2")
		require.NoError(t, err)

		session, err := auth.GetSession(issued.Token)
		require.NoError(t, err)
		assert.Nil(t, session)
	})
}

func TestAuthServiceSignOut(t *testing.T) {
	t.Run("revokes the token for its remaining lifetime", func(t *testing.T) {
		auth := newTestAuth(t)
		issued, err := auth.Login("hunter2")
		require.NoError(t, err)

		require.NoError(t, auth.SignOut(issued.Token))
		session, err := auth.GetSession(issued.Token)
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("empty token is an auth error", func(t *testing.T) {
		auth := newTestAuth(t)
		err := auth.SignOut("")
		var aerr *faults.AuthError
		require.ErrorAs(t, err, &aerr)
	})
}

func TestAuthServiceRefresh(t *testing.T) {
	t.Run("rotates the token and revokes the old one", func(t *testing.T) {
		auth := newTestAuth(t)
		issued, err := auth.Login("hunter2")
		require.NoError(t, err)

		fresh, err := auth.Refresh(issued.Token)
		require.NoError(t, err)
		assert.NotEqual(t, issued.Token, fresh.Token)

		old, err := auth.GetSession(issued.Token)
		require.NoError(t, err)
		assert.Nil(t, old)

		current, err := auth.GetSession(fresh.Token)
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, "admin", current.Role)
	})

	t.Run("refusing a revoked token", func(t *testing.T) {
		auth := newTestAuth(t)
		issued, err := auth.Login("hunter2")
		require.NoError(t, err)
		require.NoError(t, auth.SignOut(issued.Token))

		_, err = auth.Refresh(issued.Token)
		var aerr *faults.AuthError
		require.ErrorAs(t, err, &aerr)
	})
}

func TestAuthServiceEvents(t *testing.T) {
	auth := newTestAuth(t)

	var events []string
	unsubscribe := auth.OnSessionChange(func(event SessionEvent) {
		events = append(events, event.Type)
	})

	issued, err := auth.Login("hunter2")
	require.NoError(t, err)
	fresh, err := auth.Refresh(issued.Token)
	require.NoError(t, err)
	require.NoError(t, auth.SignOut(fresh.Token))

	assert.Equal(t, []string{"signed_in", "token_refreshed", "signed_out"}, events)

	unsubscribe()
	_, err = auth.Login("hunter2")
	require.NoError(t, err)
	assert.Len(t, events, 3)
}
