package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthSession(t *testing.T) {
	userID := uuid.New()

	t.Run("creates valid session", func(t *testing.T) {
		s, err := NewAuthSession(userID, "abcd1234", "10.0.0.1", "Mozilla/5.0", time.Hour)

		require.NoError(t, err)
		assert.Equal(t, userID, s.UserID)
		assert.True(t, s.IsValid(time.Now()))
		assert.True(t, s.ExpiresAt.After(time.Now()))
	})

	t.Run("rejects empty token digest", func(t *testing.T) {
		_, err := NewAuthSession(userID, "", "10.0.0.1", "", time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive TTL", func(t *testing.T) {
		_, err := NewAuthSession(userID, "abcd", "10.0.0.1", "", 0)
		assert.Error(t, err)
	})
}

func TestAuthSessionValidity(t *testing.T) {
	userID := uuid.New()

	t.Run("expired session is invalid", func(t *testing.T) {
		s, _ := NewAuthSession(userID, "abcd", "", "", time.Minute)

		assert.False(t, s.IsValid(time.Now().Add(2*time.Minute)))
	})

	t.Run("revoked session is invalid", func(t *testing.T) {
		s, _ := NewAuthSession(userID, "abcd", "", "", time.Hour)

		s.Revoke(time.Now())

		assert.False(t, s.IsValid(time.Now()))
		assert.NotNil(t, s.RevokedAt)
	})

	t.Run("revoke is idempotent", func(t *testing.T) {
		s, _ := NewAuthSession(userID, "abcd", "", "", time.Hour)
		s.Revoke(time.Now())
		first := *s.RevokedAt

		s.Revoke(time.Now().Add(time.Minute))

		assert.Equal(t, first, *s.RevokedAt)
	})
}

func TestAuthSessionTouch(t *testing.T) {
	userID := uuid.New()

	t.Run("slides expiry forward on activity", func(t *testing.T) {
		s, _ := NewAuthSession(userID, "abcd", "", "", time.Hour)
		initial := s.ExpiresAt

		later := time.Now().Add(30 * time.Minute)
		s.Touch(later, time.Hour, 24*time.Hour)

		assert.True(t, s.ExpiresAt.After(initial))
		assert.Equal(t, later, s.LastSeenAt)
	})

	t.Run("never extends past absolute max TTL", func(t *testing.T) {
		s, _ := NewAuthSession(userID, "abcd", "", "", time.Hour)
		absolute := s.CreatedAt.Add(24 * time.Hour)

		s.Touch(time.Now().Add(25*time.Hour), time.Hour, 24*time.Hour)

		assert.Equal(t, absolute, s.ExpiresAt)
	})
}
