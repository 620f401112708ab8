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

// GormMobileUnitRepository implements MobileUnitRepository using GORM
type GormMobileUnitRepository struct {
	db *gorm.DB
}

// NewGormMobileUnitRepository creates a new GormMobileUnitRepository
func NewGormMobileUnitRepository(db *gorm.DB) *GormMobileUnitRepository {
	return &GormMobileUnitRepository{db: db}
}

// Create creates a new mobile unit
func (r *GormMobileUnitRepository) Create(ctx context.Context, unit *resource.MobileUnit) error {
	model := models.MobileUnitModelFromDomain(unit)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing mobile unit
func (r *GormMobileUnitRepository) Update(ctx context.Context, unit *resource.MobileUnit) error {
	model := models.MobileUnitModelFromDomain(unit)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a mobile unit by ID
func (r *GormMobileUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MobileUnitModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a mobile unit by ID
func (r *GormMobileUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.MobileUnit, error) {
	var model models.MobileUnitModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all mobile units with pagination
func (r *GormMobileUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]resource.MobileUnit, int64, error) {
	var unitModels []models.MobileUnitModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.MobileUnitModel{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR plate ILIKE ?", searchPattern, searchPattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, MobileUnitSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.PageSize)

	if err := query.Find(&unitModels).Error; err != nil {
		return nil, 0, err
	}

	units := make([]resource.MobileUnit, len(unitModels))
	for i := range unitModels {
		units[i] = *unitModels[i].ToDomain()
	}

	return units, total, nil
}

// Ensure GormMobileUnitRepository implements MobileUnitRepository
var _ resource.MobileUnitRepository = (*GormMobileUnitRepository)(nil)
