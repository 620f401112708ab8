package persistence

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUnavailabilityRepository implements UnavailabilityRepository using GORM
type GormUnavailabilityRepository struct {
	db *gorm.DB
}

// NewGormUnavailabilityRepository creates a new GormUnavailabilityRepository
func NewGormUnavailabilityRepository(db *gorm.DB) *GormUnavailabilityRepository {
	return &GormUnavailabilityRepository{db: db}
}

// Create creates a new unavailability window
func (r *GormUnavailabilityRepository) Create(ctx context.Context, window *resource.UnavailabilityWindow) error {
	model := models.UnavailabilityModelFromDomain(*window)
	return r.db.WithContext(ctx).Create(model).Error
}

// Delete deletes an unavailability window by ID
func (r *GormUnavailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UnavailabilityModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByTrainer returns the trainer's windows intersecting [from, to].
// Both bounds are inclusive since windows are stored day-truncated.
func (r *GormUnavailabilityRepository) FindByTrainer(ctx context.Context, trainerID uuid.UUID, from, to time.Time) ([]resource.UnavailabilityWindow, error) {
	var windowModels []models.UnavailabilityModel
	if err := r.db.WithContext(ctx).
		Where("trainer_id = ? AND from_day <= ? AND to_day >= ?", trainerID, to, from).
		Order("from_day ASC").
		Find(&windowModels).Error; err != nil {
		return nil, err
	}

	windows := make([]resource.UnavailabilityWindow, len(windowModels))
	for i := range windowModels {
		windows[i] = windowModels[i].ToDomain()
	}
	return windows, nil
}

// ReplaceForTrainer swaps the trainer's windows for the given set atomically
func (r *GormUnavailabilityRepository) ReplaceForTrainer(ctx context.Context, trainerID uuid.UUID, windows []resource.UnavailabilityWindow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trainer_id = ?", trainerID).
			Delete(&models.UnavailabilityModel{}).Error; err != nil {
			return err
		}

		if len(windows) == 0 {
			return nil
		}

		windowModels := make([]models.UnavailabilityModel, len(windows))
		for i, w := range windows {
			windowModels[i].FromDomain(w)
		}
		return tx.Create(&windowModels).Error
	})
}

// FindCovering returns windows of the given trainers that cover the day.
// It backs the conflict service's unavailability checks.
func (r *GormUnavailabilityRepository) FindCovering(ctx context.Context, trainerIDs []uuid.UUID, day time.Time) ([]resource.UnavailabilityWindow, error) {
	if len(trainerIDs) == 0 {
		return nil, nil
	}

	var windowModels []models.UnavailabilityModel
	if err := r.db.WithContext(ctx).
		Where("trainer_id IN ? AND from_day <= ? AND to_day >= ?", trainerIDs, day, day).
		Order("trainer_id ASC, from_day ASC").
		Find(&windowModels).Error; err != nil {
		return nil, err
	}

	windows := make([]resource.UnavailabilityWindow, len(windowModels))
	for i := range windowModels {
		windows[i] = windowModels[i].ToDomain()
	}
	return windows, nil
}

// Ensure GormUnavailabilityRepository implements UnavailabilityRepository
var _ resource.UnavailabilityRepository = (*GormUnavailabilityRepository)(nil)
