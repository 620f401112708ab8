package resource

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookingSource struct {
	bookings []Booking
	gotRefs  []ResourceRef
	gotSlot  Slot
	gotExcl  *uuid.UUID
}

func (s *stubBookingSource) FindOverlapping(_ context.Context, refs []ResourceRef, slot Slot, excl *uuid.UUID) ([]Booking, error) {
	s.gotRefs = refs
	s.gotSlot = slot
	s.gotExcl = excl

	out := make([]Booking, 0)
	for _, b := range s.bookings {
		if excl != nil && b.SessionID == *excl {
			continue
		}
		for _, ref := range refs {
			if b.Resource == ref && slot.Overlaps(b.Slot) {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

type stubUnavailabilitySource struct {
	windows []UnavailabilityWindow
}

func (s *stubUnavailabilitySource) FindCovering(_ context.Context, trainerIDs []uuid.UUID, day time.Time) ([]UnavailabilityWindow, error) {
	out := make([]UnavailabilityWindow, 0)
	for _, w := range s.windows {
		for _, id := range trainerIDs {
			if w.TrainerID == id && w.Covers(day) {
				out = append(out, w)
			}
		}
	}
	return out, nil
}

func slotAt(day time.Time, fromHour, toHour int) Slot {
	return Slot{
		Start: day.Add(time.Duration(fromHour) * time.Hour),
		End:   day.Add(time.Duration(toHour) * time.Hour),
	}
}

func TestSlotOverlaps(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	t.Run("overlapping intervals", func(t *testing.T) {
		assert.True(t, slotAt(day, 9, 12).Overlaps(slotAt(day, 11, 14)))
		assert.True(t, slotAt(day, 9, 12).Overlaps(slotAt(day, 10, 11)))
		assert.True(t, slotAt(day, 9, 12).Overlaps(slotAt(day, 8, 13)))
	})

	t.Run("back to back slots do not overlap", func(t *testing.T) {
		assert.False(t, slotAt(day, 9, 12).Overlaps(slotAt(day, 12, 14)))
		assert.False(t, slotAt(day, 12, 14).Overlaps(slotAt(day, 9, 12)))
	})

	t.Run("different days do not overlap", func(t *testing.T) {
		nextDay := day.AddDate(0, 0, 1)
		assert.False(t, slotAt(day, 9, 12).Overlaps(slotAt(nextDay, 9, 12)))
	})
}

func TestConflictServiceCheck(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	trainerID := uuid.New()
	roomID := uuid.New()
	trainerRef := ResourceRef{Kind: KindTrainer, ID: trainerID}
	roomRef := ResourceRef{Kind: KindRoom, ID: roomID}

	t.Run("free slot returns no conflicts", func(t *testing.T) {
		svc := NewConflictService(&stubBookingSource{}, &stubUnavailabilitySource{})

		conflicts, err := svc.Check(context.Background(), slotAt(day, 9, 12), []ResourceRef{trainerRef, roomRef}, nil)

		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("double booked trainer is reported", func(t *testing.T) {
		existing := uuid.New()
		svc := NewConflictService(&stubBookingSource{bookings: []Booking{
			{SessionID: existing, Resource: trainerRef, Slot: slotAt(day, 10, 13), Label: "PRL básico - Acme"},
		}}, &stubUnavailabilitySource{})

		conflicts, err := svc.Check(context.Background(), slotAt(day, 9, 12), []ResourceRef{trainerRef}, nil)

		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, ReasonDoubleBooked, conflicts[0].Reason)
		assert.Equal(t, trainerRef, conflicts[0].Resource)
		require.NotNil(t, conflicts[0].SessionID)
		assert.Equal(t, existing, *conflicts[0].SessionID)
		assert.Equal(t, "PRL básico - Acme", conflicts[0].Detail)
	})

	t.Run("back to back booking does not conflict", func(t *testing.T) {
		svc := NewConflictService(&stubBookingSource{bookings: []Booking{
			{SessionID: uuid.New(), Resource: roomRef, Slot: slotAt(day, 12, 14)},
		}}, &stubUnavailabilitySource{})

		conflicts, err := svc.Check(context.Background(), slotAt(day, 9, 12), []ResourceRef{roomRef}, nil)

		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("rescheduling excludes the session's own bookings", func(t *testing.T) {
		self := uuid.New()
		svc := NewConflictService(&stubBookingSource{bookings: []Booking{
			{SessionID: self, Resource: trainerRef, Slot: slotAt(day, 9, 12)},
		}}, &stubUnavailabilitySource{})

		conflicts, err := svc.Check(context.Background(), slotAt(day, 10, 13), []ResourceRef{trainerRef}, &self)

		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("trainer unavailability blocks like a booking", func(t *testing.T) {
		window, err := NewUnavailabilityWindow(trainerID, day, day.AddDate(0, 0, 4), "vacaciones")
		require.NoError(t, err)

		svc := NewConflictService(&stubBookingSource{}, &stubUnavailabilitySource{windows: []UnavailabilityWindow{*window}})

		conflicts, err := svc.Check(context.Background(), slotAt(day.AddDate(0, 0, 2), 9, 12), []ResourceRef{trainerRef}, nil)

		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, ReasonUnavailable, conflicts[0].Reason)
		assert.Nil(t, conflicts[0].SessionID)
		assert.Equal(t, "vacaciones", conflicts[0].Detail)
	})

	t.Run("unavailability outside the slot day is ignored", func(t *testing.T) {
		window, err := NewUnavailabilityWindow(trainerID, day.AddDate(0, 0, 10), day.AddDate(0, 0, 12), "curso externo")
		require.NoError(t, err)

		svc := NewConflictService(&stubBookingSource{}, &stubUnavailabilitySource{windows: []UnavailabilityWindow{*window}})

		conflicts, err := svc.Check(context.Background(), slotAt(day, 9, 12), []ResourceRef{trainerRef}, nil)

		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("no resources short circuits without queries", func(t *testing.T) {
		src := &stubBookingSource{}
		svc := NewConflictService(src, &stubUnavailabilitySource{})

		conflicts, err := svc.Check(context.Background(), slotAt(day, 9, 12), nil, nil)

		require.NoError(t, err)
		assert.Empty(t, conflicts)
		assert.Nil(t, src.gotRefs)
	})

	t.Run("invalid slot is rejected", func(t *testing.T) {
		svc := NewConflictService(&stubBookingSource{}, &stubUnavailabilitySource{})

		_, err := svc.Check(context.Background(), slotAt(day, 12, 9), []ResourceRef{trainerRef}, nil)

		assert.Error(t, err)
	})

	t.Run("results are ordered by kind, resource, start", func(t *testing.T) {
		unitID := uuid.New()
		unitRef := ResourceRef{Kind: KindMobileUnit, ID: unitID}
		svc := NewConflictService(&stubBookingSource{bookings: []Booking{
			{SessionID: uuid.New(), Resource: unitRef, Slot: slotAt(day, 9, 11)},
			{SessionID: uuid.New(), Resource: roomRef, Slot: slotAt(day, 10, 12)},
			{SessionID: uuid.New(), Resource: trainerRef, Slot: slotAt(day, 11, 13)},
			{SessionID: uuid.New(), Resource: trainerRef, Slot: slotAt(day, 8, 10)},
		}}, &stubUnavailabilitySource{})

		conflicts, err := svc.Check(context.Background(), slotAt(day, 9, 12), []ResourceRef{unitRef, roomRef, trainerRef}, nil)

		require.NoError(t, err)
		require.Len(t, conflicts, 4)
		assert.Equal(t, KindTrainer, conflicts[0].Resource.Kind)
		assert.Equal(t, KindTrainer, conflicts[1].Resource.Kind)
		assert.True(t, conflicts[0].Slot.Start.Before(conflicts[1].Slot.Start))
		assert.Equal(t, KindRoom, conflicts[2].Resource.Kind)
		assert.Equal(t, KindMobileUnit, conflicts[3].Resource.Kind)
	})
}

func TestUnavailabilityWindow(t *testing.T) {
	trainerID := uuid.New()
	day := time.Date(2026, 8, 3, 15, 30, 0, 0, time.UTC)

	t.Run("truncates to whole days", func(t *testing.T) {
		w, err := NewUnavailabilityWindow(trainerID, day, day.AddDate(0, 0, 2), "x")

		require.NoError(t, err)
		assert.Equal(t, 0, w.From.Hour())
		assert.True(t, w.Covers(day))
		assert.True(t, w.Covers(day.AddDate(0, 0, 2)))
		assert.False(t, w.Covers(day.AddDate(0, 0, 3)))
	})

	t.Run("single day window covers only that day", func(t *testing.T) {
		w, err := NewUnavailabilityWindow(trainerID, day, day, "x")

		require.NoError(t, err)
		assert.True(t, w.Covers(day))
		assert.False(t, w.Covers(day.AddDate(0, 0, 1)))
		assert.False(t, w.Covers(day.AddDate(0, 0, -1)))
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		_, err := NewUnavailabilityWindow(trainerID, day, day.AddDate(0, 0, -1), "x")
		assert.Error(t, err)
	})
}
