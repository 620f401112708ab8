package catalog

import (
	"time"

	"github.com/formax/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductResponse represents a catalog product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Hours        int             `json:"hours"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Hours:        p.Hours,
		DefaultPrice: p.DefaultPrice,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	Code         string          `json:"code" binding:"required,max=50"`
	Name         string          `json:"name" binding:"required,max=300"`
	Hours        int             `json:"hours" binding:"required,min=1"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}

// UpdateProductRequest updates mutable product fields
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=300"`
	Hours        *int             `json:"hours" binding:"omitempty,min=1"`
	DefaultPrice *decimal.Decimal `json:"default_price"`
}

// VariantResponse represents a variant in API responses
type VariantResponse struct {
	ID            uuid.UUID             `json:"id"`
	ProductID     uuid.UUID             `json:"product_id"`
	StartsOn      time.Time             `json:"starts_on"`
	Location      string                `json:"location,omitempty"`
	Price         decimal.Decimal       `json:"price"`
	SeatCapacity  int                   `json:"seat_capacity"`
	SeatsSold     int                   `json:"seats_sold"`
	SeatsLeft     int                   `json:"seats_left"`
	Status        catalog.VariantStatus `json:"status"`
	SeatsSyncedAt *time.Time            `json:"seats_synced_at,omitempty"`
}

// ToVariantResponse converts a variant aggregate to its API representation
func ToVariantResponse(v *catalog.Variant) VariantResponse {
	return VariantResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		StartsOn:      v.StartsOn,
		Location:      v.Location,
		Price:         v.Price,
		SeatCapacity:  v.SeatCapacity,
		SeatsSold:     v.SeatsSold,
		SeatsLeft:     v.SeatsLeft(),
		Status:        v.Status,
		SeatsSyncedAt: v.SeatsSyncedAt,
	}
}

// CreateVariantRequest creates a draft variant of a product
type CreateVariantRequest struct {
	StartsOn     time.Time       `json:"starts_on" binding:"required"`
	Location     string          `json:"location" binding:"max=300"`
	SeatCapacity int             `json:"seat_capacity" binding:"required,min=1"`
	Price        decimal.Decimal `json:"price"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SeatSyncReport summarizes one run of the nightly seat sync
type SeatSyncReport struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}
