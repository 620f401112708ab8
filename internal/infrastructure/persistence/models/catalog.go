package models

import (
	"time"

	"github.com/formax/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the catalog Product domain entity.
type ProductModel struct {
	AggregateModel
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(300);not null"`
	DefaultModality string          `gorm:"type:varchar(20)"`
	Hours           int             `gorm:"not null;default:0"`
	DefaultPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Active          bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		Code:            m.Code,
		Name:            m.Name,
		DefaultModality: m.DefaultModality,
		Hours:           m.Hours,
		DefaultPrice:    m.DefaultPrice,
		Active:          m.Active,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.DefaultModality = p.DefaultModality
	m.Hours = p.Hours
	m.DefaultPrice = p.DefaultPrice
	m.Active = p.Active
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// VariantModel is the persistence model for the catalog Variant domain entity.
type VariantModel struct {
	AggregateModel
	ProductID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	StartsOn       time.Time             `gorm:"not null;index"`
	Location       string                `gorm:"type:varchar(300)"`
	Price          decimal.Decimal       `gorm:"type:decimal(10,2);not null;default:0"`
	SeatCapacity   int                   `gorm:"not null;default:0"`
	SeatsSold      int                   `gorm:"not null;default:0"`
	Status         catalog.VariantStatus `gorm:"type:varchar(20);not null;index"`
	WooProductID   *int64                `gorm:"index"`
	WooVariationID *int64
	SeatsSyncedAt  *time.Time
}

// TableName returns the table name for GORM
func (VariantModel) TableName() string {
	return "variants"
}

// ToDomain converts the persistence model to a domain Variant entity.
func (m *VariantModel) ToDomain() *catalog.Variant {
	v := &catalog.Variant{
		ProductID:      m.ProductID,
		StartsOn:       m.StartsOn,
		Location:       m.Location,
		Price:          m.Price,
		SeatCapacity:   m.SeatCapacity,
		SeatsSold:      m.SeatsSold,
		Status:         m.Status,
		WooProductID:   m.WooProductID,
		WooVariationID: m.WooVariationID,
		SeatsSyncedAt:  m.SeatsSyncedAt,
	}
	m.PopulateAggregateRoot(&v.BaseAggregateRoot)
	return v
}

// FromDomain populates the persistence model from a domain Variant entity.
func (m *VariantModel) FromDomain(v *catalog.Variant) {
	m.FromDomainAggregateRoot(v.BaseAggregateRoot)
	m.ProductID = v.ProductID
	m.StartsOn = v.StartsOn
	m.Location = v.Location
	m.Price = v.Price
	m.SeatCapacity = v.SeatCapacity
	m.SeatsSold = v.SeatsSold
	m.Status = v.Status
	m.WooProductID = v.WooProductID
	m.WooVariationID = v.WooVariationID
	m.SeatsSyncedAt = v.SeatsSyncedAt
}

// VariantModelFromDomain creates a new persistence model from a domain Variant entity.
func VariantModelFromDomain(v *catalog.Variant) *VariantModel {
	m := &VariantModel{}
	m.FromDomain(v)
	return m
}
