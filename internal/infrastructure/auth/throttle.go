package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginThrottle rate limits login attempts per key (the auth service keys
// on email plus client IP). Limiters are created lazily and swept after an
// hour of inactivity so the map does not grow without bound.
type LoginThrottle struct {
	mu       sync.Mutex
	limiters map[string]*throttleEntry
	limit    rate.Limit
	burst    int

	lastSweep time.Time
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const throttleIdle = time.Hour

// NewLoginThrottle creates a throttle allowing ratePerMin attempts per
// minute with the given burst.
func NewLoginThrottle(ratePerMin, burst int) *LoginThrottle {
	if ratePerMin <= 0 {
		ratePerMin = 10
	}
	if burst <= 0 {
		burst = 5
	}
	return &LoginThrottle{
		limiters:  make(map[string]*throttleEntry),
		limit:     rate.Limit(float64(ratePerMin) / 60.0),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// Allow reports whether another attempt is permitted for the key.
func (t *LoginThrottle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.lastSweep) > throttleIdle {
		t.sweep(now)
	}

	entry, ok := t.limiters[key]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

// sweep drops limiters that have been idle. Caller holds the lock.
func (t *LoginThrottle) sweep(now time.Time) {
	for key, entry := range t.limiters {
		if now.Sub(entry.lastSeen) > throttleIdle {
			delete(t.limiters, key)
		}
	}
	t.lastSweep = now
}
