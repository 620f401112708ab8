package identity

import (
	"context"
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/identity"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Authentication failures share one error so responses never reveal
// whether the email exists.
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked after repeated failures")
	ErrTooManyAttempts    = shared.NewDomainError("RATE_LIMITED", "Too many login attempts, try again later")
)

// TokenSource mints opaque session tokens. Only the digest is ever
// persisted; the plaintext token travels in the session cookie.
type TokenSource interface {
	Mint() (token string, digest string, err error)
	Digest(token string) string
}

// LoginThrottle rate-limits login attempts per client key. Keys combine
// the submitted email and the client IP so one address cannot exhaust a
// victim's budget and one account cannot be sprayed from many addresses
// unthrottled.
type LoginThrottle interface {
	Allow(key string) bool
}

// throttleKey builds the composite email+IP throttle key. The email is
// lowercased so casing variants share a bucket.
func throttleKey(email, ip string) string {
	return strings.ToLower(email) + "|" + ip
}

// SessionCache is a read-through cache in front of the session store.
// Misses fall back to the repository; a nil cache is valid.
type SessionCache interface {
	Get(ctx context.Context, digest string) (*identity.AuthSession, bool)
	Set(ctx context.Context, session *identity.AuthSession)
	Delete(ctx context.Context, digest string)
}

// AuthConfig tunes session lifetimes and lockout behavior
type AuthConfig struct {
	SessionIdleTTL  time.Duration
	SessionMaxTTL   time.Duration
	MaxLoginFailures int
	LockDuration    time.Duration
}

// DefaultAuthConfig returns production defaults
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		SessionIdleTTL:   12 * time.Hour,
		SessionMaxTTL:    30 * 24 * time.Hour,
		MaxLoginFailures: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles login, logout and request authentication for
// cookie-based sessions.
type AuthService struct {
	userRepo    identity.UserRepository
	sessionRepo identity.AuthSessionRepository
	tokens      TokenSource
	throttle    LoginThrottle
	cache       SessionCache
	config      AuthConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	sessionRepo identity.AuthSessionRepository,
	tokens TokenSource,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		config:      config,
	}
}

// SetThrottle sets the per-email+IP login throttle (optional)
func (s *AuthService) SetThrottle(throttle LoginThrottle) {
	s.throttle = throttle
}

// SetSessionCache sets the session cache (optional)
func (s *AuthService) SetSessionCache(cache SessionCache) {
	s.cache = cache
}

// Login verifies credentials and opens a new session. The returned token
// goes into an HttpOnly cookie; failed attempts count toward account lockout.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*LoginResult, error) {
	if s.throttle != nil && !s.throttle.Allow(throttleKey(req.Email, ip)) {
		return nil, ErrTooManyAttempts
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == identity.UserStatusDeactivated {
		return nil, ErrInvalidCredentials
	}
	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginFailures, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		if locked {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	token, digest, err := s.tokens.Mint()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_ERROR", "Failed to create session token")
	}
	session, err := identity.NewAuthSession(user.ID, digest, ip, userAgent, s.config.SessionIdleTTL)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	user.RecordLoginSuccess(ip)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, session)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// Authenticate resolves a cookie token to its user, sliding the session
// expiry forward. Returns ErrUnauthorized for any invalid token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*identity.User, *identity.AuthSession, error) {
	if token == "" {
		return nil, nil, shared.ErrUnauthorized
	}
	digest := s.tokens.Digest(token)

	var session *identity.AuthSession
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, digest); ok {
			session = cached
		}
	}
	if session == nil {
		found, err := s.sessionRepo.FindByTokenDigest(ctx, digest)
		if err != nil || found == nil {
			return nil, nil, shared.ErrUnauthorized
		}
		session = found
	}

	now := time.Now()
	if !session.IsValid(now) {
		if s.cache != nil {
			s.cache.Delete(ctx, digest)
		}
		return nil, nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil || user == nil || user.Status == identity.UserStatusDeactivated {
		return nil, nil, shared.ErrUnauthorized
	}

	// Sliding expiry; skip the write when the session was touched recently
	if now.Sub(session.LastSeenAt) > time.Minute {
		session.Touch(now, s.config.SessionIdleTTL, s.config.SessionMaxTTL)
		if err := s.sessionRepo.Update(ctx, session); err == nil && s.cache != nil {
			s.cache.Set(ctx, session)
		}
	}

	return user, session, nil
}

// Logout revokes the session behind the given token. Unknown tokens are
// not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	digest := s.tokens.Digest(token)
	session, err := s.sessionRepo.FindByTokenDigest(ctx, digest)
	if err != nil || session == nil {
		return nil
	}
	session.Revoke(time.Now())
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Delete(ctx, digest)
	}
	return nil
}

// RevokeAllSessions logs a user out everywhere (deactivation, password reset)
func (s *AuthService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.RevokeAllForUser(ctx, userID, time.Now())
}

// CleanupExpiredSessions deletes long-expired sessions. Run by the scheduler.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, time.Now().Add(-24*time.Hour))
}
