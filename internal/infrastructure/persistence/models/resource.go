package models

import (
	"time"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// TrainerModel is the persistence model for the Trainer domain entity.
type TrainerModel struct {
	AggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Email       string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone       string          `gorm:"type:varchar(50)"`
	Province    string          `gorm:"type:varchar(100);index"`
	Specialties pq.StringArray  `gorm:"type:text[]"`
	DailyRate   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Active      bool            `gorm:"not null;default:true;index"`
	Notes       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TrainerModel) TableName() string {
	return "trainers"
}

// ToDomain converts the persistence model to a domain Trainer entity.
func (m *TrainerModel) ToDomain() *resource.Trainer {
	t := &resource.Trainer{
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Province:    m.Province,
		Specialties: []string(m.Specialties),
		DailyRate:   m.DailyRate,
		Active:      m.Active,
		Notes:       m.Notes,
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Trainer entity.
func (m *TrainerModel) FromDomain(t *resource.Trainer) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Name = t.Name
	m.Email = t.Email
	m.Phone = t.Phone
	m.Province = t.Province
	m.Specialties = pq.StringArray(t.Specialties)
	m.DailyRate = t.DailyRate
	m.Active = t.Active
	m.Notes = t.Notes
}

// TrainerModelFromDomain creates a new persistence model from a domain Trainer entity.
func TrainerModelFromDomain(t *resource.Trainer) *TrainerModel {
	m := &TrainerModel{}
	m.FromDomain(t)
	return m
}

// RoomModel is the persistence model for the Room domain entity.
type RoomModel struct {
	AggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	Location string `gorm:"type:varchar(300)"`
	Capacity int    `gorm:"not null;default:0"`
	Active   bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts the persistence model to a domain Room entity.
func (m *RoomModel) ToDomain() *resource.Room {
	r := &resource.Room{
		Name:     m.Name,
		Location: m.Location,
		Capacity: m.Capacity,
		Active:   m.Active,
	}
	m.PopulateAggregateRoot(&r.BaseAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain Room entity.
func (m *RoomModel) FromDomain(r *resource.Room) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Name = r.Name
	m.Location = r.Location
	m.Capacity = r.Capacity
	m.Active = r.Active
}

// RoomModelFromDomain creates a new persistence model from a domain Room entity.
func RoomModelFromDomain(r *resource.Room) *RoomModel {
	m := &RoomModel{}
	m.FromDomain(r)
	return m
}

// MobileUnitModel is the persistence model for the MobileUnit domain entity.
type MobileUnitModel struct {
	AggregateModel
	Name   string `gorm:"type:varchar(200);not null"`
	Plate  string `gorm:"type:varchar(20);uniqueIndex"`
	Active bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (MobileUnitModel) TableName() string {
	return "mobile_units"
}

// ToDomain converts the persistence model to a domain MobileUnit entity.
func (m *MobileUnitModel) ToDomain() *resource.MobileUnit {
	u := &resource.MobileUnit{
		Name:   m.Name,
		Plate:  m.Plate,
		Active: m.Active,
	}
	m.PopulateAggregateRoot(&u.BaseAggregateRoot)
	return u
}

// FromDomain populates the persistence model from a domain MobileUnit entity.
func (m *MobileUnitModel) FromDomain(u *resource.MobileUnit) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Name = u.Name
	m.Plate = u.Plate
	m.Active = u.Active
}

// MobileUnitModelFromDomain creates a new persistence model from a domain MobileUnit entity.
func MobileUnitModelFromDomain(u *resource.MobileUnit) *MobileUnitModel {
	m := &MobileUnitModel{}
	m.FromDomain(u)
	return m
}

// UnavailabilityModel is the persistence model for trainer unavailability windows.
// From and To are day-truncated; the window is inclusive on both ends.
type UnavailabilityModel struct {
	BaseModel
	TrainerID uuid.UUID `gorm:"type:uuid;not null;index:idx_unavailability_trainer_window"`
	From      time.Time `gorm:"column:from_day;not null;index:idx_unavailability_trainer_window"`
	To        time.Time `gorm:"column:to_day;not null;index:idx_unavailability_trainer_window"`
	Reason    string    `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (UnavailabilityModel) TableName() string {
	return "trainer_unavailability"
}

// ToDomain converts the persistence model to a domain UnavailabilityWindow.
func (m *UnavailabilityModel) ToDomain() resource.UnavailabilityWindow {
	return resource.UnavailabilityWindow{
		BaseEntity: m.BaseModel.ToDomain(),
		TrainerID:  m.TrainerID,
		From:       m.From,
		To:         m.To,
		Reason:     m.Reason,
	}
}

// FromDomain populates the persistence model from a domain UnavailabilityWindow.
func (m *UnavailabilityModel) FromDomain(w resource.UnavailabilityWindow) {
	m.FromDomainBaseEntity(w.BaseEntity)
	m.TrainerID = w.TrainerID
	m.From = w.From
	m.To = w.To
	m.Reason = w.Reason
}

// UnavailabilityModelFromDomain creates a new persistence model from a domain UnavailabilityWindow.
func UnavailabilityModelFromDomain(w resource.UnavailabilityWindow) *UnavailabilityModel {
	m := &UnavailabilityModel{}
	m.FromDomain(w)
	return m
}
