package orders

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type MaterialOrderRepository interface {
	Save(ctx context.Context, order *MaterialOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*MaterialOrder, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*MaterialOrder, error)
	FindByStatus(ctx context.Context, status MaterialOrderStatus, filter shared.Filter) (*shared.Paginated[*MaterialOrder], error)
	FindDueBefore(ctx context.Context, deadline time.Time) ([]*MaterialOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
