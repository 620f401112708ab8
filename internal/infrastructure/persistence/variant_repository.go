package persistence

import (
	"context"
	"errors"

	"github.com/formax/backend/internal/domain/catalog"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVariantRepository implements VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	model := models.VariantModelFromDomain(variant)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a variant by ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var model models.VariantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct returns all variants of a product, soonest start first
func (r *GormVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*catalog.Variant, error) {
	var variantModels []models.VariantModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("starts_on ASC").
		Find(&variantModels).Error; err != nil {
		return nil, err
	}

	variants := make([]*catalog.Variant, len(variantModels))
	for i := range variantModels {
		variants[i] = variantModels[i].ToDomain()
	}
	return variants, nil
}

// FindPublished returns all published variants. Used by the seat sync job.
func (r *GormVariantRepository) FindPublished(ctx context.Context) ([]*catalog.Variant, error) {
	var variantModels []models.VariantModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", catalog.VariantStatusPublished).
		Order("starts_on ASC").
		Find(&variantModels).Error; err != nil {
		return nil, err
	}

	variants := make([]*catalog.Variant, len(variantModels))
	for i := range variantModels {
		variants[i] = variantModels[i].ToDomain()
	}
	return variants, nil
}

// Delete deletes a variant by ID
func (r *GormVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.VariantModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormVariantRepository implements VariantRepository
var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
