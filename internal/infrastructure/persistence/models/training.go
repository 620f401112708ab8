package models

import (
	"time"

	"github.com/formax/backend/internal/domain/training"
	"github.com/google/uuid"
)

// SessionModel is the persistence model for the Session domain entity.
// Trainer assignments live in the session_trainers join table and must be
// loaded and saved by the repository.
type SessionModel struct {
	AggregateModel
	CourseID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	DealID        *uuid.UUID              `gorm:"type:uuid;index"`
	VariantID     *uuid.UUID              `gorm:"type:uuid;index"`
	Title         string                  `gorm:"type:varchar(500);not null"`
	StartsAt      time.Time               `gorm:"not null;index"`
	EndsAt        time.Time               `gorm:"not null;index"`
	Modality      training.Modality       `gorm:"type:varchar(20);not null"`
	Location      string                  `gorm:"type:varchar(300)"`
	RoomID        *uuid.UUID              `gorm:"type:uuid;index"`
	MobileUnitID  *uuid.UUID              `gorm:"type:uuid;index"`
	Seats         int                     `gorm:"not null;default:0"`
	Status        training.SessionStatus  `gorm:"type:varchar(20);not null;index"`
	CancelReason  string                  `gorm:"type:varchar(500)"`
	DeliveryNotes string                  `gorm:"type:text"`
	PendingReview bool                    `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (SessionModel) TableName() string {
	return "sessions"
}

// ToDomain converts the persistence model to a domain Session entity.
// Note: TrainerIDs must be loaded separately by the repository.
func (m *SessionModel) ToDomain() *training.Session {
	s := &training.Session{
		CourseID:      m.CourseID,
		DealID:        m.DealID,
		VariantID:     m.VariantID,
		Title:         m.Title,
		StartsAt:      m.StartsAt,
		EndsAt:        m.EndsAt,
		Modality:      m.Modality,
		Location:      m.Location,
		TrainerIDs:    make([]uuid.UUID, 0), // Loaded separately
		RoomID:        m.RoomID,
		MobileUnitID:  m.MobileUnitID,
		Seats:         m.Seats,
		Status:        m.Status,
		CancelReason:  m.CancelReason,
		DeliveryNotes: m.DeliveryNotes,
		PendingReview: m.PendingReview,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Session entity.
func (m *SessionModel) FromDomain(s *training.Session) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.CourseID = s.CourseID
	m.DealID = s.DealID
	m.VariantID = s.VariantID
	m.Title = s.Title
	m.StartsAt = s.StartsAt
	m.EndsAt = s.EndsAt
	m.Modality = s.Modality
	m.Location = s.Location
	m.RoomID = s.RoomID
	m.MobileUnitID = s.MobileUnitID
	m.Seats = s.Seats
	m.Status = s.Status
	m.CancelReason = s.CancelReason
	m.DeliveryNotes = s.DeliveryNotes
	m.PendingReview = s.PendingReview
}

// SessionModelFromDomain creates a new persistence model from a domain Session entity.
func SessionModelFromDomain(s *training.Session) *SessionModel {
	m := &SessionModel{}
	m.FromDomain(s)
	return m
}

// SessionTrainerModel is the persistence model for session trainer assignments.
type SessionTrainerModel struct {
	SessionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrainerID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SessionTrainerModel) TableName() string {
	return "session_trainers"
}

// CertificateModel is the persistence model for the Certificate domain entity.
type CertificateModel struct {
	AggregateModel
	SessionID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AttendeeName string     `gorm:"type:varchar(300);not null"`
	AttendeeNIF  string     `gorm:"type:varchar(20);not null"`
	Number       string     `gorm:"type:varchar(30);not null;uniqueIndex"`
	IssuedAt     time.Time  `gorm:"not null;index"`
	ObjectKey    string     `gorm:"type:varchar(500);not null"`
	RevokedAt    *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (CertificateModel) TableName() string {
	return "certificates"
}

// ToDomain converts the persistence model to a domain Certificate entity.
func (m *CertificateModel) ToDomain() *training.Certificate {
	c := &training.Certificate{
		SessionID:    m.SessionID,
		AttendeeName: m.AttendeeName,
		AttendeeNIF:  m.AttendeeNIF,
		Number:       m.Number,
		IssuedAt:     m.IssuedAt,
		ObjectKey:    m.ObjectKey,
		RevokedAt:    m.RevokedAt,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Certificate entity.
func (m *CertificateModel) FromDomain(c *training.Certificate) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.SessionID = c.SessionID
	m.AttendeeName = c.AttendeeName
	m.AttendeeNIF = c.AttendeeNIF
	m.Number = c.Number
	m.IssuedAt = c.IssuedAt
	m.ObjectKey = c.ObjectKey
	m.RevokedAt = c.RevokedAt
}

// CertificateModelFromDomain creates a new persistence model from a domain Certificate entity.
func CertificateModelFromDomain(c *training.Certificate) *CertificateModel {
	m := &CertificateModel{}
	m.FromDomain(c)
	return m
}

// CertificateSequenceModel holds the per-year certificate number counter.
// Rows are upserted with the counter incremented atomically so concurrent
// issuing transactions never hand out the same number.
type CertificateSequenceModel struct {
	Year      int       `gorm:"primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CertificateSequenceModel) TableName() string {
	return "certificate_sequences"
}
