package training

import (
	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
)

// Event types for the training context
const (
	EventTypeSessionCreated       = "training.session.created"
	EventTypeSessionRescheduled   = "training.session.rescheduled"
	EventTypeSessionStatusChanged = "training.session.status_changed"
	EventTypeCertificateIssued    = "training.certificate.issued"
)

// SessionCreatedEvent is published when a session is created
type SessionCreatedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewSessionCreatedEvent creates a SessionCreatedEvent
func NewSessionCreatedEvent(s *Session) *SessionCreatedEvent {
	return &SessionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionCreated, "Session", s.ID),
		Title:           s.Title,
	}
}

// SessionRescheduledEvent is published when a session moves to a new slot
type SessionRescheduledEvent struct {
	shared.BaseDomainEvent
	FromSlot resource.Slot `json:"from_slot"`
	ToSlot   resource.Slot `json:"to_slot"`
}

// NewSessionRescheduledEvent creates a SessionRescheduledEvent
func NewSessionRescheduledEvent(s *Session, from resource.Slot) *SessionRescheduledEvent {
	return &SessionRescheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionRescheduled, "Session", s.ID),
		FromSlot:        from,
		ToSlot:          s.Slot(),
	}
}

// SessionStatusChangedEvent is published on lifecycle transitions
type SessionStatusChangedEvent struct {
	shared.BaseDomainEvent
	FromStatus SessionStatus `json:"from_status"`
	ToStatus   SessionStatus `json:"to_status"`
}

// NewSessionStatusChangedEvent creates a SessionStatusChangedEvent
func NewSessionStatusChangedEvent(s *Session, from SessionStatus) *SessionStatusChangedEvent {
	return &SessionStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionStatusChanged, "Session", s.ID),
		FromStatus:      from,
		ToStatus:        s.Status,
	}
}

// CertificateIssuedEvent is published when a certificate is issued
type CertificateIssuedEvent struct {
	shared.BaseDomainEvent
	Number       string `json:"number"`
	AttendeeName string `json:"attendee_name"`
}

// NewCertificateIssuedEvent creates a CertificateIssuedEvent
func NewCertificateIssuedEvent(c *Certificate) *CertificateIssuedEvent {
	return &CertificateIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCertificateIssued, "Certificate", c.ID),
		Number:          c.Number,
		AttendeeName:    c.AttendeeName,
	}
}
