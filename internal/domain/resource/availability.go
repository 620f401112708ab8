package resource

import (
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UnavailabilityWindow marks a date range in which a trainer cannot be
// booked (vacation, another engagement, sick leave). Dates are inclusive
// whole days in the company's local timezone.
type UnavailabilityWindow struct {
	shared.BaseEntity
	TrainerID uuid.UUID
	From      time.Time // First unavailable day, truncated to midnight
	To        time.Time // Last unavailable day, truncated to midnight
	Reason    string
}

// NewUnavailabilityWindow creates a window after validating the date range
func NewUnavailabilityWindow(trainerID uuid.UUID, from, to time.Time, reason string) (*UnavailabilityWindow, error) {
	from = truncateToDay(from)
	to = truncateToDay(to)
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Unavailability end date is before start date")
	}
	return &UnavailabilityWindow{
		BaseEntity: shared.NewBaseEntity(),
		TrainerID:  trainerID,
		From:       from,
		To:         to,
		Reason:     strings.TrimSpace(reason),
	}, nil
}

// Covers reports whether the window covers the given day
func (w *UnavailabilityWindow) Covers(day time.Time) bool {
	day = truncateToDay(day)
	return !day.Before(w.From) && !day.After(w.To)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
