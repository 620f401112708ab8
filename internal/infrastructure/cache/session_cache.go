package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/formax/backend/internal/domain/identity"
)

// sessionCacheTTL keeps cache entries short-lived so a revocation done on
// another instance takes effect quickly. Misses fall through to the
// database, so a short TTL only costs an occasional extra query.
const sessionCacheTTL = 2 * time.Minute

// InMemorySessionCache caches auth sessions by token digest for
// single-instance deployments.
type InMemorySessionCache struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
}

type sessionEntry struct {
	session   *identity.AuthSession
	expiresAt time.Time
}

// NewInMemorySessionCache creates an empty session cache.
func NewInMemorySessionCache() *InMemorySessionCache {
	return &InMemorySessionCache{entries: make(map[string]sessionEntry)}
}

// Get returns a cached session, if present and fresh.
func (c *InMemorySessionCache) Get(ctx context.Context, digest string) (*identity.AuthSession, bool) {
	c.mu.RLock()
	e, ok := c.entries[digest]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.session, true
}

// Set caches a session under its token digest.
func (c *InMemorySessionCache) Set(ctx context.Context, session *identity.AuthSession) {
	if session == nil || session.TokenDigest == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// Opportunistically drop stale entries once the map grows
	if len(c.entries) > 10000 {
		now := time.Now()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[session.TokenDigest] = sessionEntry{
		session:   session,
		expiresAt: time.Now().Add(sessionCacheTTL),
	}
}

// Delete evicts a session, e.g. on logout or revocation.
func (c *InMemorySessionCache) Delete(ctx context.Context, digest string) {
	c.mu.Lock()
	delete(c.entries, digest)
	c.mu.Unlock()
}

// RedisSessionCache caches auth sessions in Redis so all instances share
// eviction on logout.
type RedisSessionCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisSessionCache creates a session cache on an existing Redis client.
func NewRedisSessionCache(client *redis.Client, logger *zap.Logger) *RedisSessionCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSessionCache{
		client:    client,
		keyPrefix: "auth:session:",
		logger:    logger,
	}
}

// Get returns a cached session, if present. Redis errors are treated as
// cache misses.
func (c *RedisSessionCache) Get(ctx context.Context, digest string) (*identity.AuthSession, bool) {
	data, err := c.client.Get(ctx, c.keyPrefix+digest).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("session cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var session identity.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		c.logger.Warn("session cache entry corrupt, evicting", zap.Error(err))
		c.client.Del(ctx, c.keyPrefix+digest)
		return nil, false
	}
	return &session, true
}

// Set caches a session under its token digest. Failures are logged and
// ignored; the database remains the source of truth.
func (c *RedisSessionCache) Set(ctx context.Context, session *identity.AuthSession) {
	if session == nil || session.TokenDigest == "" {
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		c.logger.Warn("session cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+session.TokenDigest, data, sessionCacheTTL).Err(); err != nil {
		c.logger.Warn("session cache write failed", zap.Error(err))
	}
}

// Delete evicts a session from the cache.
func (c *RedisSessionCache) Delete(ctx context.Context, digest string) {
	if err := c.client.Del(ctx, c.keyPrefix+digest).Err(); err != nil {
		c.logger.Warn("session cache delete failed", zap.Error(err))
	}
}
