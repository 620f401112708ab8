package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/formax/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per caller. Buckets refill at
// limit/window and allow bursts up to the full limit, so a quiet caller
// can spend its whole window allowance at once.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	perToken rate.Limit
	burst    int
	idleTTL  time.Duration
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows limit requests per window for each distinct key.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		perToken: rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idleTTL:  window * 3,
	}
	go rl.sweepLoop(window)
	return rl
}

func (rl *RateLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.idleTTL)
		rl.mu.Lock()
		for key, b := range rl.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) bucketFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.perToken, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.lim
}

// Allow reports whether a request under key may proceed, consuming one
// token when it does.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.bucketFor(key).Allow()
}

// Remaining returns how many requests key can still make right now.
func (rl *RateLimiter) Remaining(key string) int {
	tokens := int(rl.bucketFor(key).Tokens())
	if tokens < 0 {
		return 0
	}
	return tokens
}

// RateLimit throttles by authenticated user when a session is present,
// otherwise by client IP. Rejections use the standard error envelope.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID := GetCurrentUserID(c); userID != "" {
			key = userID + ":" + key
		}

		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				requestIDFrom(c),
			))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}
