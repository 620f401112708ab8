package catalog

import (
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a course in the training catalog
type Product struct {
	shared.BaseAggregateRoot
	Code            string // Internal course code, unique
	Name            string
	DefaultModality string // Informational default for new sessions
	Hours           int    // Teaching hours
	DefaultPrice    decimal.Decimal
	Active          bool
}

// NewProduct creates an active catalog product
func NewProduct(code, name string, hours int) (*Product, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if hours <= 0 {
		return nil, shared.NewDomainError("INVALID_HOURS", "Teaching hours must be positive")
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Hours:             hours,
		DefaultPrice:      decimal.Zero,
		Active:            true,
	}, nil
}

// SetDefaultPrice sets the default price for new variants and deals
func (p *Product) SetDefaultPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.DefaultPrice = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Deactivate retires the product from the catalog
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
