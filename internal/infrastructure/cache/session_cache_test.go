package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formax/backend/internal/domain/identity"
)

func newTestSession(t *testing.T) *identity.AuthSession {
	t.Helper()
	session, err := identity.NewAuthSession(uuid.New(), "digest-abc", "10.0.0.1", "test-agent", time.Hour)
	require.NoError(t, err)
	return session
}

func TestInMemorySessionCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		cache := NewInMemorySessionCache()
		session := newTestSession(t)

		cache.Set(ctx, session)

		got, ok := cache.Get(ctx, session.TokenDigest)
		require.True(t, ok)
		assert.Equal(t, session.UserID, got.UserID)
	})

	t.Run("miss for unknown digest", func(t *testing.T) {
		cache := NewInMemorySessionCache()

		_, ok := cache.Get(ctx, "unknown")
		assert.False(t, ok)
	})

	t.Run("delete evicts", func(t *testing.T) {
		cache := NewInMemorySessionCache()
		session := newTestSession(t)

		cache.Set(ctx, session)
		cache.Delete(ctx, session.TokenDigest)

		_, ok := cache.Get(ctx, session.TokenDigest)
		assert.False(t, ok)
	})

	t.Run("nil session is ignored", func(t *testing.T) {
		cache := NewInMemorySessionCache()

		assert.NotPanics(t, func() {
			cache.Set(ctx, nil)
		})
	})
}
