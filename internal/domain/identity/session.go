package identity

import (
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AuthSession is a server-side login session. The browser holds an opaque
// token in an HttpOnly cookie; only the SHA-256 digest of that token is
// persisted here.
type AuthSession struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID
	TokenDigest string // hex-encoded SHA-256 of the opaque token
	ExpiresAt   time.Time
	LastSeenAt  time.Time
	IP          string
	UserAgent   string
	RevokedAt   *time.Time
}

// NewAuthSession creates a session for a user. tokenDigest is computed by
// the auth infrastructure; the plaintext token never reaches the domain.
func NewAuthSession(userID uuid.UUID, tokenDigest, ip, userAgent string, ttl time.Duration) (*AuthSession, error) {
	if tokenDigest == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token digest cannot be empty")
	}
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_TTL", "Session TTL must be positive")
	}
	now := time.Now()
	return &AuthSession{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		TokenDigest:       tokenDigest,
		ExpiresAt:         now.Add(ttl),
		LastSeenAt:        now,
		IP:                ip,
		UserAgent:         userAgent,
	}, nil
}

// IsValid reports whether the session can still authenticate requests
func (s *AuthSession) IsValid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// Touch updates the last-seen timestamp and slides the expiry forward,
// capped so a session never lives longer than maxTTL from creation.
func (s *AuthSession) Touch(now time.Time, idleTTL, maxTTL time.Duration) {
	s.LastSeenAt = now
	slid := now.Add(idleTTL)
	absolute := s.CreatedAt.Add(maxTTL)
	if slid.After(absolute) {
		slid = absolute
	}
	s.ExpiresAt = slid
	s.UpdatedAt = now
}

// Revoke invalidates the session (logout or forced revocation)
func (s *AuthSession) Revoke(now time.Time) {
	if s.RevokedAt != nil {
		return
	}
	s.RevokedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
}
