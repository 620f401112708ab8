package payroll

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type PayrollRepository interface {
	Save(ctx context.Context, payroll *PayrollMonth) error
	FindByID(ctx context.Context, id uuid.UUID) (*PayrollMonth, error)
	FindByPeriod(ctx context.Context, year int, month time.Month) (*PayrollMonth, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*PayrollMonth], error)
	Delete(ctx context.Context, id uuid.UUID) error
}
