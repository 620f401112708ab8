package models

import (
	"time"

	"github.com/formax/backend/internal/domain/orders"
	"github.com/google/uuid"
)

// MaterialOrderModel is the persistence model for the MaterialOrder domain entity.
type MaterialOrderModel struct {
	AggregateModel
	SessionID   uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Status      orders.MaterialOrderStatus `gorm:"type:varchar(20);not null;index"`
	ShipTo      string                     `gorm:"type:varchar(500)"`
	NeededBy    time.Time                  `gorm:"not null;index"`
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelNote  string           `gorm:"type:varchar(500)"`
	Lines       []OrderLineModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (MaterialOrderModel) TableName() string {
	return "material_orders"
}

// ToDomain converts the persistence model to a domain MaterialOrder entity.
func (m *MaterialOrderModel) ToDomain() *orders.MaterialOrder {
	o := &orders.MaterialOrder{
		SessionID:   m.SessionID,
		Status:      m.Status,
		ShipTo:      m.ShipTo,
		NeededBy:    m.NeededBy,
		Lines:       make([]orders.OrderLine, 0, len(m.Lines)),
		ShippedAt:   m.ShippedAt,
		DeliveredAt: m.DeliveredAt,
		CancelNote:  m.CancelNote,
	}
	for i := range m.Lines {
		o.Lines = append(o.Lines, m.Lines[i].ToDomain())
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)
	return o
}

// FromDomain populates the persistence model from a domain MaterialOrder entity.
func (m *MaterialOrderModel) FromDomain(o *orders.MaterialOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.SessionID = o.SessionID
	m.Status = o.Status
	m.ShipTo = o.ShipTo
	m.NeededBy = o.NeededBy
	m.ShippedAt = o.ShippedAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelNote = o.CancelNote
	m.Lines = make([]OrderLineModel, 0, len(o.Lines))
	for _, line := range o.Lines {
		lm := OrderLineModel{}
		lm.FromDomain(line)
		m.Lines = append(m.Lines, lm)
	}
}

// MaterialOrderModelFromDomain creates a new persistence model from a domain MaterialOrder entity.
func MaterialOrderModelFromDomain(o *orders.MaterialOrder) *MaterialOrderModel {
	m := &MaterialOrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for a material order line.
type OrderLineModel struct {
	BaseModel
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Item     string    `gorm:"type:varchar(300);not null"`
	Quantity int       `gorm:"not null;default:1"`
	Note     string    `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "material_order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine.
func (m *OrderLineModel) ToDomain() orders.OrderLine {
	return orders.OrderLine{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		Item:       m.Item,
		Quantity:   m.Quantity,
		Note:       m.Note,
	}
}

// FromDomain populates the persistence model from a domain OrderLine.
func (m *OrderLineModel) FromDomain(l orders.OrderLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.OrderID = l.OrderID
	m.Item = l.Item
	m.Quantity = l.Quantity
	m.Note = l.Note
}
