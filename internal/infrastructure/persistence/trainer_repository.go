package persistence

import (
	"context"
	"errors"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTrainerRepository implements TrainerRepository using GORM
type GormTrainerRepository struct {
	db *gorm.DB
}

// NewGormTrainerRepository creates a new GormTrainerRepository
func NewGormTrainerRepository(db *gorm.DB) *GormTrainerRepository {
	return &GormTrainerRepository{db: db}
}

// Create creates a new trainer
func (r *GormTrainerRepository) Create(ctx context.Context, trainer *resource.Trainer) error {
	model := models.TrainerModelFromDomain(trainer)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing trainer
func (r *GormTrainerRepository) Update(ctx context.Context, trainer *resource.Trainer) error {
	model := models.TrainerModelFromDomain(trainer)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a trainer by ID
func (r *GormTrainerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TrainerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a trainer by ID
func (r *GormTrainerRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Trainer, error) {
	var model models.TrainerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all trainers with pagination
func (r *GormTrainerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]resource.Trainer, int64, error) {
	var trainerModels []models.TrainerModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.TrainerModel{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, TrainerSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.PageSize)

	if err := query.Find(&trainerModels).Error; err != nil {
		return nil, 0, err
	}

	trainers := make([]resource.Trainer, len(trainerModels))
	for i := range trainerModels {
		trainers[i] = *trainerModels[i].ToDomain()
	}

	return trainers, total, nil
}

// applyFilter applies filter options to the query
func (r *GormTrainerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"name ILIKE ? OR email ILIKE ? OR province ILIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	if province, ok := filter.Filters["province"]; ok {
		query = query.Where("province = ?", province)
	}

	if specialty, ok := filter.Filters["specialty"]; ok {
		query = query.Where("? = ANY(specialties)", specialty)
	}

	return query
}

// Ensure GormTrainerRepository implements TrainerRepository
var _ resource.TrainerRepository = (*GormTrainerRepository)(nil)
