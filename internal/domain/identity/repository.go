package identity

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
}

// AuthSessionRepository defines persistence operations for auth sessions
type AuthSessionRepository interface {
	Create(ctx context.Context, session *AuthSession) error
	Update(ctx context.Context, session *AuthSession) error
	FindByTokenDigest(ctx context.Context, digest string) (*AuthSession, error)
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
