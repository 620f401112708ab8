package training

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SessionRepository defines persistence operations for sessions. It doubles
// as the conflict service's BookingSource: the bookings it returns are
// derived from planned and confirmed sessions only.
type SessionRepository interface {
	resource.BookingSource
	Create(ctx context.Context, session *Session) error
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Session, int64, error)
	// FindConfirmedEndedBefore returns confirmed sessions whose slot ended
	// before the given time. Used by the nightly auto-deliver job.
	FindConfirmedEndedBefore(ctx context.Context, before time.Time, limit int) ([]Session, error)
	// FindDeliveredBetween returns delivered sessions starting in [from, to).
	// Used by the payroll run.
	FindDeliveredBetween(ctx context.Context, from, to time.Time) ([]Session, error)
}

// CertificateRepository defines persistence operations for certificates
type CertificateRepository interface {
	Create(ctx context.Context, cert *Certificate) error
	Update(ctx context.Context, cert *Certificate) error
	FindByID(ctx context.Context, id uuid.UUID) (*Certificate, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]Certificate, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Certificate, int64, error)
	// NextSequence atomically reserves the next certificate number for the
	// given year. Must be called inside the issuing transaction.
	NextSequence(ctx context.Context, year int) (int64, error)
}
