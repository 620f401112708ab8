package catalog

import (
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantStatus tracks whether a variant is visible in the web shop
type VariantStatus string

const (
	VariantStatusDraft     VariantStatus = "draft"
	VariantStatusPublished VariantStatus = "published"
	VariantStatusClosed    VariantStatus = "closed"
)

// Variant is a dated, purchasable edition of a product. Published
// variants are mirrored to the WooCommerce shop and their seat counts
// are synced back nightly.
type Variant struct {
	shared.BaseAggregateRoot
	ProductID       uuid.UUID
	StartsOn        time.Time
	Location        string
	Price           decimal.Decimal
	SeatCapacity    int
	SeatsSold       int
	Status          VariantStatus
	WooProductID    *int64 // Remote WooCommerce product ID once published
	WooVariationID  *int64
	SeatsSyncedAt   *time.Time
}

// NewVariant creates a draft variant for a product
func NewVariant(productID uuid.UUID, startsOn time.Time, seatCapacity int, price decimal.Decimal) (*Variant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Variant requires a product")
	}
	if seatCapacity <= 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Seat capacity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &Variant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		StartsOn:          startsOn,
		Price:             price,
		SeatCapacity:      seatCapacity,
		Status:            VariantStatusDraft,
	}, nil
}

// Publish links the variant to its WooCommerce counterpart and opens sales
func (v *Variant) Publish(wooProductID, wooVariationID int64) error {
	if v.Status == VariantStatusClosed {
		return shared.NewDomainError("INVALID_STATE", "Closed variants cannot be republished")
	}
	v.Status = VariantStatusPublished
	v.WooProductID = &wooProductID
	v.WooVariationID = &wooVariationID
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// Close stops sales for the variant
func (v *Variant) Close() {
	v.Status = VariantStatusClosed
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// SeatsLeft returns remaining sellable seats, never negative
func (v *Variant) SeatsLeft() int {
	left := v.SeatCapacity - v.SeatsSold
	if left < 0 {
		return 0
	}
	return left
}

// SyncSeats records the seat count reported by the shop. Counts above
// capacity are accepted as-is so oversells stay visible.
func (v *Variant) SyncSeats(sold int, at time.Time) error {
	if sold < 0 {
		return shared.NewDomainError("INVALID_SEATS", "Seats sold cannot be negative")
	}
	v.SeatsSold = sold
	v.SeatsSyncedAt = &at
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}
