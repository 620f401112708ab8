package resource

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ResourceKind identifies the type of bookable resource
type ResourceKind string

const (
	KindTrainer    ResourceKind = "trainer"
	KindRoom       ResourceKind = "room"
	KindMobileUnit ResourceKind = "mobile_unit"
)

// kindOrder fixes the sort order of conflict results
var kindOrder = map[ResourceKind]int{
	KindTrainer:    0,
	KindRoom:       1,
	KindMobileUnit: 2,
}

// ResourceRef identifies one concrete resource
type ResourceRef struct {
	Kind ResourceKind `json:"kind"`
	ID   uuid.UUID    `json:"id"`
}

// Slot is a half-open time interval [Start, End)
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate checks that the slot is well formed
func (s Slot) Validate() error {
	if !s.End.After(s.Start) {
		return fmt.Errorf("slot end %s is not after start %s", s.End, s.Start)
	}
	return nil
}

// Overlaps reports whether two half-open intervals intersect.
// Back-to-back slots (a.End == b.Start) do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

// ConflictReason explains why a booking clashes
type ConflictReason string

const (
	ReasonDoubleBooked ConflictReason = "double_booked"
	ReasonUnavailable  ConflictReason = "trainer_unavailable"
)

// Conflict is one detected clash between a candidate slot and an existing
// booking or unavailability window.
type Conflict struct {
	Resource  ResourceRef    `json:"resource"`
	Reason    ConflictReason `json:"reason"`
	Slot      Slot           `json:"slot"`
	SessionID *uuid.UUID     `json:"session_id,omitempty"` // Set for double bookings
	Detail    string         `json:"detail,omitempty"`
}

// Booking is an existing resource reservation, typically derived from a
// planned or confirmed session.
type Booking struct {
	SessionID uuid.UUID
	Resource  ResourceRef
	Slot      Slot
	Label     string // Human-readable session label for conflict messages
}

// BookingSource finds existing bookings that could clash with a slot.
// Implementations must exclude cancelled sessions and, when
// excludeSessionID is non-nil, bookings belonging to that session.
type BookingSource interface {
	FindOverlapping(ctx context.Context, refs []ResourceRef, slot Slot, excludeSessionID *uuid.UUID) ([]Booking, error)
}

// UnavailabilitySource finds trainer unavailability windows covering a slot's day
type UnavailabilitySource interface {
	FindCovering(ctx context.Context, trainerIDs []uuid.UUID, day time.Time) ([]UnavailabilityWindow, error)
}

// ConflictService detects double bookings for a candidate slot over a set of
// resources. Overlap is computed on half-open intervals, cancelled sessions
// never conflict, and trainer unavailability windows block like bookings.
// Results are returned in a deterministic order: resource kind, resource ID,
// then booking start.
type ConflictService struct {
	bookings       BookingSource
	unavailability UnavailabilitySource
}

// NewConflictService creates a conflict detection service
func NewConflictService(bookings BookingSource, unavailability UnavailabilitySource) *ConflictService {
	return &ConflictService{
		bookings:       bookings,
		unavailability: unavailability,
	}
}

// Check returns every conflict between the candidate slot and the given
// resources. An empty result means the slot is free. excludeSessionID
// removes a session's own bookings from consideration so rescheduling a
// session does not conflict with itself.
func (s *ConflictService) Check(ctx context.Context, slot Slot, refs []ResourceRef, excludeSessionID *uuid.UUID) ([]Conflict, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}

	conflicts := make([]Conflict, 0)

	bookings, err := s.bookings.FindOverlapping(ctx, refs, slot, excludeSessionID)
	if err != nil {
		return nil, fmt.Errorf("finding overlapping bookings: %w", err)
	}
	for _, b := range bookings {
		// The source query is trusted to over-fetch at worst; re-check the
		// interval so the overlap rule lives in exactly one place.
		if !slot.Overlaps(b.Slot) {
			continue
		}
		sessionID := b.SessionID
		conflicts = append(conflicts, Conflict{
			Resource:  b.Resource,
			Reason:    ReasonDoubleBooked,
			Slot:      b.Slot,
			SessionID: &sessionID,
			Detail:    b.Label,
		})
	}

	trainerIDs := trainerIDsOf(refs)
	if len(trainerIDs) > 0 {
		windows, err := s.unavailability.FindCovering(ctx, trainerIDs, slot.Start)
		if err != nil {
			return nil, fmt.Errorf("finding unavailability windows: %w", err)
		}
		for _, w := range windows {
			if !w.Covers(slot.Start) {
				continue
			}
			conflicts = append(conflicts, Conflict{
				Resource: ResourceRef{Kind: KindTrainer, ID: w.TrainerID},
				Reason:   ReasonUnavailable,
				Slot:     Slot{Start: w.From, End: w.To.AddDate(0, 0, 1)},
				Detail:   w.Reason,
			})
		}
	}

	sortConflicts(conflicts)
	return conflicts, nil
}

func trainerIDsOf(refs []ResourceRef) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		if ref.Kind == KindTrainer {
			ids = append(ids, ref.ID)
		}
	}
	return ids
}

func sortConflicts(conflicts []Conflict) {
	sort.SliceStable(conflicts, func(i, j int) bool {
		a, b := conflicts[i], conflicts[j]
		if a.Resource.Kind != b.Resource.Kind {
			return kindOrder[a.Resource.Kind] < kindOrder[b.Resource.Kind]
		}
		if a.Resource.ID != b.Resource.ID {
			return a.Resource.ID.String() < b.Resource.ID.String()
		}
		return a.Slot.Start.Before(b.Slot.Start)
	})
}
