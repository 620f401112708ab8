package models

import (
	"time"

	"github.com/formax/backend/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollMonthModel is the persistence model for the PayrollMonth domain entity.
type PayrollMonthModel struct {
	AggregateModel
	Year       int                   `gorm:"not null;uniqueIndex:idx_payroll_period"`
	Month      int                   `gorm:"not null;uniqueIndex:idx_payroll_period"`
	Status     payroll.PayrollStatus `gorm:"type:varchar(20);not null;index"`
	ApprovedAt *time.Time
	ApprovedBy *uuid.UUID         `gorm:"type:uuid"`
	PaidAt     *time.Time
	Lines      []PayrollLineModel `gorm:"foreignKey:PayrollID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PayrollMonthModel) TableName() string {
	return "payroll_months"
}

// ToDomain converts the persistence model to a domain PayrollMonth entity.
func (m *PayrollMonthModel) ToDomain() *payroll.PayrollMonth {
	p := &payroll.PayrollMonth{
		Year:       m.Year,
		Month:      time.Month(m.Month),
		Status:     m.Status,
		Lines:      make([]payroll.PayrollLine, 0, len(m.Lines)),
		ApprovedAt: m.ApprovedAt,
		ApprovedBy: m.ApprovedBy,
		PaidAt:     m.PaidAt,
	}
	for i := range m.Lines {
		p.Lines = append(p.Lines, m.Lines[i].ToDomain())
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain PayrollMonth entity.
func (m *PayrollMonthModel) FromDomain(p *payroll.PayrollMonth) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Year = p.Year
	m.Month = int(p.Month)
	m.Status = p.Status
	m.ApprovedAt = p.ApprovedAt
	m.ApprovedBy = p.ApprovedBy
	m.PaidAt = p.PaidAt
	m.Lines = make([]PayrollLineModel, 0, len(p.Lines))
	for _, line := range p.Lines {
		lm := PayrollLineModel{}
		lm.FromDomain(line)
		m.Lines = append(m.Lines, lm)
	}
}

// PayrollMonthModelFromDomain creates a new persistence model from a domain PayrollMonth entity.
func PayrollMonthModelFromDomain(p *payroll.PayrollMonth) *PayrollMonthModel {
	m := &PayrollMonthModel{}
	m.FromDomain(p)
	return m
}

// PayrollLineModel is the persistence model for a payroll line.
type PayrollLineModel struct {
	BaseModel
	PayrollID uuid.UUID        `gorm:"type:uuid;not null;index"`
	TrainerID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Kind      payroll.LineKind `gorm:"type:varchar(20);not null"`
	SessionID *uuid.UUID       `gorm:"type:uuid;index"`
	Concept   string           `gorm:"type:varchar(500);not null"`
	Amount    decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (PayrollLineModel) TableName() string {
	return "payroll_lines"
}

// ToDomain converts the persistence model to a domain PayrollLine.
func (m *PayrollLineModel) ToDomain() payroll.PayrollLine {
	return payroll.PayrollLine{
		BaseEntity: m.BaseModel.ToDomain(),
		PayrollID:  m.PayrollID,
		TrainerID:  m.TrainerID,
		Kind:       m.Kind,
		SessionID:  m.SessionID,
		Concept:    m.Concept,
		Amount:     m.Amount,
	}
}

// FromDomain populates the persistence model from a domain PayrollLine.
func (m *PayrollLineModel) FromDomain(l payroll.PayrollLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.PayrollID = l.PayrollID
	m.TrainerID = l.TrainerID
	m.Kind = l.Kind
	m.SessionID = l.SessionID
	m.Concept = l.Concept
	m.Amount = l.Amount
}
