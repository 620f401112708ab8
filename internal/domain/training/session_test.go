package training

import (
	"testing"
	"time"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	s, err := NewSession(uuid.New(), "PRL básico - Acme", start, start.Add(4*time.Hour), ModalityOnSite)
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func TestNewSession(t *testing.T) {
	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	t.Run("creates draft session", func(t *testing.T) {
		s, err := NewSession(uuid.New(), "PRL básico", start, start.Add(4*time.Hour), ModalityOnSite)

		require.NoError(t, err)
		assert.Equal(t, StatusDraft, s.Status)
		assert.Empty(t, s.TrainerIDs)
		assert.False(t, s.BooksResources())

		events := s.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSessionCreated, events[0].EventType())
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := NewSession(uuid.New(), "x", start, start.Add(-time.Hour), ModalityOnSite)
		assert.Error(t, err)
	})

	t.Run("rejects slot spanning days", func(t *testing.T) {
		_, err := NewSession(uuid.New(), "x", start, start.Add(20*time.Hour), ModalityOnSite)
		assert.Error(t, err)
	})

	t.Run("rejects unknown modality", func(t *testing.T) {
		_, err := NewSession(uuid.New(), "x", start, start.Add(time.Hour), Modality("hybrid"))
		assert.Error(t, err)
	})
}

func TestSessionResourceRefs(t *testing.T) {
	s := newTestSession(t)
	trainerID := uuid.New()
	roomID := uuid.New()

	require.NoError(t, s.AssignTrainer(trainerID))
	require.NoError(t, s.SetRoom(&roomID))

	refs := s.ResourceRefs()
	require.Len(t, refs, 2)
	assert.Equal(t, resource.ResourceRef{Kind: resource.KindTrainer, ID: trainerID}, refs[0])
	assert.Equal(t, resource.ResourceRef{Kind: resource.KindRoom, ID: roomID}, refs[1])
}

func TestSessionTrainerAssignment(t *testing.T) {
	t.Run("duplicate assignment is rejected", func(t *testing.T) {
		s := newTestSession(t)
		trainerID := uuid.New()

		require.NoError(t, s.AssignTrainer(trainerID))
		err := s.AssignTrainer(trainerID)

		assert.Error(t, err)
		assert.Len(t, s.TrainerIDs, 1)
	})

	t.Run("unassign removes the trainer", func(t *testing.T) {
		s := newTestSession(t)
		trainerID := uuid.New()
		require.NoError(t, s.AssignTrainer(trainerID))

		require.NoError(t, s.UnassignTrainer(trainerID))

		assert.Empty(t, s.TrainerIDs)
	})

	t.Run("unassign of unknown trainer fails", func(t *testing.T) {
		s := newTestSession(t)
		assert.Error(t, s.UnassignTrainer(uuid.New()))
	})
}

func TestSessionMobileUnit(t *testing.T) {
	t.Run("only mobile-unit sessions can book a unit", func(t *testing.T) {
		s := newTestSession(t) // on_site
		unitID := uuid.New()

		err := s.SetMobileUnit(&unitID)

		assert.Error(t, err)
	})

	t.Run("mobile-unit session books a unit", func(t *testing.T) {
		start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
		s, err := NewSession(uuid.New(), "x", start, start.Add(time.Hour), ModalityMobileUnit)
		require.NoError(t, err)
		unitID := uuid.New()

		require.NoError(t, s.SetMobileUnit(&unitID))
		assert.Equal(t, unitID, *s.MobileUnitID)
	})
}

func TestSessionLifecycle(t *testing.T) {
	t.Run("walks the happy path", func(t *testing.T) {
		s := newTestSession(t)

		require.NoError(t, s.TransitionTo(StatusPlanned))
		assert.True(t, s.BooksResources())
		require.NoError(t, s.TransitionTo(StatusConfirmed))
		require.NoError(t, s.TransitionTo(StatusDelivered))
		assert.False(t, s.BooksResources())
	})

	t.Run("draft cannot jump to delivered", func(t *testing.T) {
		s := newTestSession(t)
		assert.Error(t, s.TransitionTo(StatusDelivered))
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.TransitionTo(StatusPlanned))
		require.NoError(t, s.TransitionTo(StatusConfirmed))
		require.NoError(t, s.TransitionTo(StatusDelivered))

		assert.Error(t, s.TransitionTo(StatusPlanned))
		assert.Error(t, s.Cancel("too late"))
	})

	t.Run("cancel records the reason", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.TransitionTo(StatusPlanned))

		require.NoError(t, s.Cancel("  client postponed  "))

		assert.Equal(t, StatusCancelled, s.Status)
		assert.Equal(t, "client postponed", s.CancelReason)
	})

	t.Run("cancelled session rejects edits", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.Cancel("x"))

		assert.Error(t, s.AssignTrainer(uuid.New()))
		assert.Error(t, s.Reschedule(s.StartsAt, s.EndsAt.Add(time.Hour)))
	})

	t.Run("auto-delivery flags pending review", func(t *testing.T) {
		s := newTestSession(t)
		require.NoError(t, s.TransitionTo(StatusPlanned))
		require.NoError(t, s.TransitionTo(StatusConfirmed))

		require.NoError(t, s.MarkDeliveredBySchedule())

		assert.Equal(t, StatusDelivered, s.Status)
		assert.True(t, s.PendingReview)
	})
}

func TestSessionReschedule(t *testing.T) {
	s := newTestSession(t)
	newStart := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, s.Reschedule(newStart, newStart.Add(3*time.Hour)))

	assert.Equal(t, newStart, s.StartsAt)
	events := s.GetDomainEvents()
	require.Len(t, events, 1)
	moved, ok := events[0].(*SessionRescheduledEvent)
	require.True(t, ok)
	assert.Equal(t, newStart, moved.ToSlot.Start)
}
