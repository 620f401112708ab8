package crm

import (
	"context"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DealRepository defines persistence operations for deals
type DealRepository interface {
	Create(ctx context.Context, deal *Deal) error
	Update(ctx context.Context, deal *Deal) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Deal, error)
	FindByPipedriveID(ctx context.Context, pipedriveID int64) (*Deal, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Deal, int64, error)
}
