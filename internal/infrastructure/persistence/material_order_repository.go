package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/formax/backend/internal/domain/orders"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMaterialOrderRepository implements MaterialOrderRepository using GORM
type GormMaterialOrderRepository struct {
	db *gorm.DB
}

// NewGormMaterialOrderRepository creates a new GormMaterialOrderRepository
func NewGormMaterialOrderRepository(db *gorm.DB) *GormMaterialOrderRepository {
	return &GormMaterialOrderRepository{db: db}
}

// Save creates or updates a material order. Lines are replaced wholesale
// since they carry no state of their own.
func (r *GormMaterialOrderRepository) Save(ctx context.Context, order *orders.MaterialOrder) error {
	model := models.MaterialOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&models.OrderLineModel{}).Error; err != nil {
			return err
		}
		return tx.Save(model).Error
	})
}

// FindByID finds a material order by ID including its lines
func (r *GormMaterialOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*orders.MaterialOrder, error) {
	var model models.MaterialOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySession returns all material orders raised for a session
func (r *GormMaterialOrderRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*orders.MaterialOrder, error) {
	var orderModels []models.MaterialOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// FindByStatus returns material orders in a status with pagination
func (r *GormMaterialOrderRepository) FindByStatus(ctx context.Context, status orders.MaterialOrderStatus, filter shared.Filter) (*shared.Paginated[*orders.MaterialOrder], error) {
	var orderModels []models.MaterialOrderModel
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.MaterialOrderModel{}).
		Where("status = ?", status)

	if sessionID, ok := filter.Filters["session_id"]; ok {
		query = query.Where("session_id = ?", sessionID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, MaterialOrderSortFields, "needed_by")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.PageSize)

	if err := query.Preload("Lines").Find(&orderModels).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(toDomainOrders(orderModels), total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindDueBefore returns open orders whose needed-by date falls before the
// deadline. Shipped, delivered and cancelled orders are excluded.
func (r *GormMaterialOrderRepository) FindDueBefore(ctx context.Context, deadline time.Time) ([]*orders.MaterialOrder, error) {
	var orderModels []models.MaterialOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("needed_by < ? AND status IN ?", deadline,
			[]orders.MaterialOrderStatus{orders.OrderStatusRequested, orders.OrderStatusPrepared}).
		Order("needed_by ASC").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// Delete deletes a material order and its lines
func (r *GormMaterialOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).
			Delete(&models.OrderLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.MaterialOrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func toDomainOrders(orderModels []models.MaterialOrderModel) []*orders.MaterialOrder {
	result := make([]*orders.MaterialOrder, len(orderModels))
	for i := range orderModels {
		result[i] = orderModels[i].ToDomain()
	}
	return result
}

// Ensure GormMaterialOrderRepository implements MaterialOrderRepository
var _ orders.MaterialOrderRepository = (*GormMaterialOrderRepository)(nil)
