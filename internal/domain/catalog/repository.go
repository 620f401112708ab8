package catalog

import (
	"context"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Product], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VariantRepository interface {
	Save(ctx context.Context, variant *Variant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Variant, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*Variant, error)
	FindPublished(ctx context.Context) ([]*Variant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
