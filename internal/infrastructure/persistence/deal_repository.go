package persistence

import (
	"context"
	"errors"

	"github.com/formax/backend/internal/domain/crm"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDealRepository implements DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// Create creates a new deal
func (r *GormDealRepository) Create(ctx context.Context, deal *crm.Deal) error {
	model := models.DealModelFromDomain(deal)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing deal
func (r *GormDealRepository) Update(ctx context.Context, deal *crm.Deal) error {
	model := models.DealModelFromDomain(deal)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a deal by ID
func (r *GormDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DealModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a deal by ID
func (r *GormDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Deal, error) {
	var model models.DealModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPipedriveID finds a deal by its remote Pipedrive ID
func (r *GormDealRepository) FindByPipedriveID(ctx context.Context, pipedriveID int64) (*crm.Deal, error) {
	var model models.DealModel
	if err := r.db.WithContext(ctx).
		Where("pipedrive_id = ?", pipedriveID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all deals with pagination
func (r *GormDealRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Deal, int64, error) {
	var dealModels []models.DealModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DealModel{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, DealSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.PageSize)

	if err := query.Find(&dealModels).Error; err != nil {
		return nil, 0, err
	}

	deals := make([]crm.Deal, len(dealModels))
	for i := range dealModels {
		deals[i] = *dealModels[i].ToDomain()
	}

	return deals, total, nil
}

// applyFilter applies filter options to the query
func (r *GormDealRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"title ILIKE ? OR org_name ILIKE ? OR person_name ILIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	if stage, ok := filter.Filters["stage"]; ok {
		query = query.Where("stage = ?", stage)
	}

	if ownerID, ok := filter.Filters["owner_id"]; ok {
		query = query.Where("owner_id = ?", ownerID)
	}

	return query
}

// Ensure GormDealRepository implements DealRepository
var _ crm.DealRepository = (*GormDealRepository)(nil)
