package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/formax/backend/internal/domain/payroll"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayrollRepository implements PayrollRepository using GORM
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewGormPayrollRepository creates a new GormPayrollRepository
func NewGormPayrollRepository(db *gorm.DB) *GormPayrollRepository {
	return &GormPayrollRepository{db: db}
}

// Save creates or updates a payroll month. Lines are replaced wholesale so
// recalculation and manual adjustments always leave a consistent set.
func (r *GormPayrollRepository) Save(ctx context.Context, p *payroll.PayrollMonth) error {
	model := models.PayrollMonthModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payroll_id = ?", p.ID).
			Delete(&models.PayrollLineModel{}).Error; err != nil {
			return err
		}
		return tx.Save(model).Error
	})
}

// FindByID finds a payroll month by ID including its lines
func (r *GormPayrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.PayrollMonth, error) {
	var model models.PayrollMonthModel
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

// FindByPeriod finds the payroll month for a year and month
func (r *GormPayrollRepository) FindByPeriod(ctx context.Context, year int, month time.Month) (*payroll.PayrollMonth, error) {
	var model models.PayrollMonthModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("year = ? AND month = ?", year, int(month)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns payroll months with pagination, newest period first
func (r *GormPayrollRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*payroll.PayrollMonth], error) {
	var payrollModels []models.PayrollMonthModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PayrollMonthModel{})

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if year, ok := filter.Filters["year"]; ok {
		query = query.Where("year = ?", year)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.OrderBy == "" {
		query = query.Order("year DESC, month DESC")
	} else {
		orderBy := ValidateSortField(filter.OrderBy, PayrollSortFields, "year")
		orderDir := ValidateSortOrder(filter.OrderDir)
		query = query.Order(orderBy + " " + orderDir)
	}

	query = query.Offset(filter.Offset()).Limit(filter.PageSize)

	if err := query.Preload("Lines").Find(&payrollModels).Error; err != nil {
		return nil, err
	}

	payrolls := make([]*payroll.PayrollMonth, len(payrollModels))
	for i := range payrollModels {
		payrolls[i] = payrollModels[i].ToDomain()
	}

	page := shared.NewPaginated(payrolls, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Delete deletes a payroll month and its lines
func (r *GormPayrollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payroll_id = ?", id).
			Delete(&models.PayrollLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PayrollMonthModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormPayrollRepository implements PayrollRepository
var _ payroll.PayrollRepository = (*GormPayrollRepository)(nil)
