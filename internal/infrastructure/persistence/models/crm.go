package models

import (
	"time"

	"github.com/formax/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealModel is the persistence model for the Deal domain entity.
type DealModel struct {
	AggregateModel
	PipedriveID       int64           `gorm:"not null;uniqueIndex"`
	Title             string          `gorm:"type:varchar(500);not null"`
	OrgName           string          `gorm:"type:varchar(300)"`
	PersonName        string          `gorm:"type:varchar(200)"`
	PersonEmail       string          `gorm:"type:varchar(200)"`
	Stage             crm.DealStage   `gorm:"type:varchar(30);not null;index"`
	Value             decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Currency          string          `gorm:"type:varchar(3);not null;default:'EUR'"`
	ExpectedCloseDate *time.Time      `gorm:"index"`
	OwnerID           *uuid.UUID      `gorm:"type:uuid;index"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DealModel) TableName() string {
	return "deals"
}

// ToDomain converts the persistence model to a domain Deal entity.
func (m *DealModel) ToDomain() *crm.Deal {
	d := &crm.Deal{
		PipedriveID:       m.PipedriveID,
		Title:             m.Title,
		OrgName:           m.OrgName,
		PersonName:        m.PersonName,
		PersonEmail:       m.PersonEmail,
		Stage:             m.Stage,
		Value:             m.Value,
		Currency:          m.Currency,
		ExpectedCloseDate: m.ExpectedCloseDate,
		OwnerID:           m.OwnerID,
		Notes:             m.Notes,
	}
	m.PopulateAggregateRoot(&d.BaseAggregateRoot)
	return d
}

// FromDomain populates the persistence model from a domain Deal entity.
func (m *DealModel) FromDomain(d *crm.Deal) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.PipedriveID = d.PipedriveID
	m.Title = d.Title
	m.OrgName = d.OrgName
	m.PersonName = d.PersonName
	m.PersonEmail = d.PersonEmail
	m.Stage = d.Stage
	m.Value = d.Value
	m.Currency = d.Currency
	m.ExpectedCloseDate = d.ExpectedCloseDate
	m.OwnerID = d.OwnerID
	m.Notes = d.Notes
}

// DealModelFromDomain creates a new persistence model from a domain Deal entity.
func DealModelFromDomain(d *crm.Deal) *DealModel {
	m := &DealModel{}
	m.FromDomain(d)
	return m
}
