package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSource_Mint(t *testing.T) {
	src := NewTokenSource()

	t.Run("mints 64 character hex token with matching digest", func(t *testing.T) {
		token, digest, err := src.Mint()
		require.NoError(t, err)

		assert.Len(t, token, 64)
		assert.Len(t, digest, 64)
		assert.Equal(t, src.Digest(token), digest)
		assert.NotEqual(t, token, digest)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token, _, err := src.Mint()
			require.NoError(t, err)
			assert.False(t, seen[token], "duplicate token minted")
			seen[token] = true
		}
	})
}

func TestTokenSource_Digest(t *testing.T) {
	src := NewTokenSource()

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, src.Digest("abc"), src.Digest("abc"))
	})

	t.Run("differs per input", func(t *testing.T) {
		assert.NotEqual(t, src.Digest("abc"), src.Digest("abd"))
	})
}

func TestLoginThrottle(t *testing.T) {
	t.Run("allows up to burst then rejects", func(t *testing.T) {
		// 1 attempt per minute, burst of 3
		throttle := NewLoginThrottle(1, 3)

		for i := 0; i < 3; i++ {
			assert.True(t, throttle.Allow("10.0.0.1"), "attempt %d should pass", i+1)
		}
		assert.False(t, throttle.Allow("10.0.0.1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		throttle := NewLoginThrottle(1, 1)

		assert.True(t, throttle.Allow("10.0.0.1"))
		assert.False(t, throttle.Allow("10.0.0.1"))
		assert.True(t, throttle.Allow("10.0.0.2"))
	})

	t.Run("defaults applied for non-positive settings", func(t *testing.T) {
		throttle := NewLoginThrottle(0, 0)
		assert.True(t, throttle.Allow("10.0.0.1"))
	})
}
