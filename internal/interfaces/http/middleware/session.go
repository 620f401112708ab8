package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/formax/backend/internal/domain/identity"
	"github.com/formax/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionUserKey   = "session_user"
	SessionKey       = "session"
	SessionUserIDKey = "session_user_id"
	SessionRoleKey   = "session_role"
)

// Authenticator resolves an opaque cookie token to a user and session.
// Implemented by identity.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.User, *identity.AuthSession, error)
}

// SessionMiddlewareConfig holds configuration for session authentication middleware
type SessionMiddlewareConfig struct {
	// Authenticator is required for token resolution
	Authenticator Authenticator
	// CookieName is the name of the session cookie
	CookieName string
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Optional callback if the session is invalid (default: return 401)
	OnError func(c *gin.Context, err error)
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultSessionConfig returns default session middleware configuration
func DefaultSessionConfig(authenticator Authenticator, cookieName string) SessionMiddlewareConfig {
	return SessionMiddlewareConfig{
		Authenticator: authenticator,
		CookieName:    cookieName,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/webhooks/pipedrive",
		},
	}
}

// SessionAuthMiddleware creates cookie session authentication middleware
func SessionAuthMiddleware(authenticator Authenticator, cookieName string) gin.HandlerFunc {
	return SessionAuthMiddlewareWithConfig(DefaultSessionConfig(authenticator, cookieName))
}

// SessionAuthMiddlewareWithConfig creates session authentication middleware with custom config
func SessionAuthMiddlewareWithConfig(cfg SessionMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, err := c.Cookie(cfg.CookieName)
		if err != nil || token == "" {
			handleAuthError(c, cfg, err, "Missing session cookie")
			return
		}

		user, session, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			handleAuthError(c, cfg, err, "Session validation failed")
			return
		}

		// Store identity in context for downstream use
		c.Set(SessionUserKey, user)
		c.Set(SessionKey, session)
		c.Set(SessionUserIDKey, user.ID.String())
		c.Set(SessionRoleKey, user.Role)

		// Also set in request context for logger
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, user.ID.String())
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Session authentication successful",
				zap.String("user_id", user.ID.String()),
				zap.String("role", string(user.Role)),
			)
		}

		c.Next()
	}
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg SessionMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Session authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_UNAUTHORIZED",
			"message": "Authentication required",
		},
	})
}

// GetCurrentUser retrieves the authenticated user from gin.Context
func GetCurrentUser(c *gin.Context) *identity.User {
	if v, exists := c.Get(SessionUserKey); exists {
		if user, ok := v.(*identity.User); ok {
			return user
		}
	}
	return nil
}

// MustGetCurrentUser retrieves the authenticated user or panics if not found
func MustGetCurrentUser(c *gin.Context) *identity.User {
	user := GetCurrentUser(c)
	if user == nil {
		panic("authenticated user not found in context")
	}
	return user
}

// GetCurrentSession retrieves the auth session from gin.Context
func GetCurrentSession(c *gin.Context) *identity.AuthSession {
	if v, exists := c.Get(SessionKey); exists {
		if session, ok := v.(*identity.AuthSession); ok {
			return session
		}
	}
	return nil
}

// GetCurrentUserID retrieves the authenticated user's ID from context
func GetCurrentUserID(c *gin.Context) string {
	if v, exists := c.Get(SessionUserIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetCurrentRole retrieves the authenticated user's role from context.
// Returns an empty role when the request is unauthenticated.
func GetCurrentRole(c *gin.Context) identity.Role {
	if v, exists := c.Get(SessionRoleKey); exists {
		if role, ok := v.(identity.Role); ok {
			return role
		}
	}
	return identity.Role("")
}
