package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/formax/backend/internal/domain/identity"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuthSessionRepository implements AuthSessionRepository using GORM
type GormAuthSessionRepository struct {
	db *gorm.DB
}

// NewGormAuthSessionRepository creates a new GormAuthSessionRepository
func NewGormAuthSessionRepository(db *gorm.DB) *GormAuthSessionRepository {
	return &GormAuthSessionRepository{db: db}
}

// Create creates a new auth session
func (r *GormAuthSessionRepository) Create(ctx context.Context, session *identity.AuthSession) error {
	model := models.AuthSessionModelFromDomain(session)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing auth session
func (r *GormAuthSessionRepository) Update(ctx context.Context, session *identity.AuthSession) error {
	model := models.AuthSessionModelFromDomain(session)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByTokenDigest finds a session by the SHA-256 digest of its token
func (r *GormAuthSessionRepository) FindByTokenDigest(ctx context.Context, digest string) (*identity.AuthSession, error) {
	if digest == "" {
		return nil, shared.ErrNotFound
	}
	var model models.AuthSessionModel
	if err := r.db.WithContext(ctx).
		Where("token_digest = ?", digest).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// RevokeAllForUser marks every live session of the user as revoked
func (r *GormAuthSessionRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AuthSessionModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

// DeleteExpired removes sessions that expired before the given time.
// Revoked sessions are kept until they expire so revocation stays auditable.
func (r *GormAuthSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.AuthSessionModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormAuthSessionRepository implements AuthSessionRepository
var _ identity.AuthSessionRepository = (*GormAuthSessionRepository)(nil)
