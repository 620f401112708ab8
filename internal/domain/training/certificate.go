package training

import (
	"fmt"
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Certificate is a completion certificate for one attendee of a delivered
// session. Numbers are sequential per issue year: FP-2026-000123.
type Certificate struct {
	shared.BaseAggregateRoot
	SessionID    uuid.UUID
	AttendeeName string
	AttendeeNIF  string // Spanish tax ID of the attendee
	Number       string
	IssuedAt     time.Time
	ObjectKey    string // S3 key of the rendered PDF
	RevokedAt    *time.Time
}

// FormatCertificateNumber builds the printable number from year and sequence
func FormatCertificateNumber(year int, seq int64) string {
	return fmt.Sprintf("FP-%d-%06d", year, seq)
}

// NewCertificate issues a certificate. seq must come from the per-year
// sequence inside the issuing transaction so numbers never repeat.
func NewCertificate(sessionID uuid.UUID, attendeeName, attendeeNIF string, issuedAt time.Time, seq int64) (*Certificate, error) {
	attendeeName = strings.TrimSpace(attendeeName)
	if attendeeName == "" {
		return nil, shared.NewDomainError("INVALID_ATTENDEE", "Attendee name cannot be empty")
	}
	if seq <= 0 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Certificate sequence must be positive")
	}

	c := &Certificate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		AttendeeName:      attendeeName,
		AttendeeNIF:       strings.ToUpper(strings.TrimSpace(attendeeNIF)),
		Number:            FormatCertificateNumber(issuedAt.Year(), seq),
		IssuedAt:          issuedAt,
	}
	c.AddDomainEvent(NewCertificateIssuedEvent(c))
	return c, nil
}

// AttachObject records the stored PDF's object key
func (c *Certificate) AttachObject(key string) {
	c.ObjectKey = key
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Revoke marks the certificate as revoked
func (c *Certificate) Revoke(now time.Time) error {
	if c.RevokedAt != nil {
		return shared.NewDomainError("INVALID_STATE", "Certificate is already revoked")
	}
	c.RevokedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}
