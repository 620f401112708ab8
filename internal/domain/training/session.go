package training

import (
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a training session
type SessionStatus string

const (
	StatusDraft     SessionStatus = "draft"
	StatusPlanned   SessionStatus = "planned"
	StatusConfirmed SessionStatus = "confirmed"
	StatusDelivered SessionStatus = "delivered"
	StatusCancelled SessionStatus = "cancelled"
)

// legalTransitions maps each status to the statuses it may move to
var legalTransitions = map[SessionStatus][]SessionStatus{
	StatusDraft:     {StatusPlanned, StatusCancelled},
	StatusPlanned:   {StatusConfirmed, StatusDraft, StatusCancelled},
	StatusConfirmed: {StatusDelivered, StatusPlanned, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Modality is how the session is delivered
type Modality string

const (
	ModalityOnSite     Modality = "on_site"
	ModalityOnline     Modality = "online"
	ModalityMobileUnit Modality = "mobile_unit"
)

// ValidModality reports whether m is a known modality
func ValidModality(m Modality) bool {
	return m == ModalityOnSite || m == ModalityOnline || m == ModalityMobileUnit
}

// Session (sesión) is a scheduled delivery of a course, usually tied to a
// deal. Draft sessions may have no resources assigned; once planned, the
// assigned resources participate in conflict detection.
type Session struct {
	shared.BaseAggregateRoot
	CourseID      uuid.UUID
	DealID        *uuid.UUID // Company-specific training
	VariantID     *uuid.UUID // Open-enrollment instance
	Title         string
	StartsAt      time.Time
	EndsAt        time.Time
	Modality      Modality
	Location      string
	TrainerIDs    []uuid.UUID
	RoomID        *uuid.UUID
	MobileUnitID  *uuid.UUID
	Seats         int
	Status        SessionStatus
	CancelReason  string
	DeliveryNotes string
	PendingReview bool // Set when auto-delivered by the scheduler
}

// NewSession creates a draft session
func NewSession(courseID uuid.UUID, title string, startsAt, endsAt time.Time, modality Modality) (*Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Session title cannot be empty")
	}
	if !endsAt.After(startsAt) {
		return nil, shared.NewDomainError("INVALID_SLOT", "Session end must be after start")
	}
	if !sameDay(startsAt, endsAt) {
		return nil, shared.NewDomainError("INVALID_SLOT", "Session must start and end on the same day")
	}
	if !ValidModality(modality) {
		return nil, shared.NewDomainError("INVALID_MODALITY", "Unknown modality: "+string(modality))
	}

	s := &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CourseID:          courseID,
		Title:             title,
		StartsAt:          startsAt,
		EndsAt:            endsAt,
		Modality:          modality,
		TrainerIDs:        make([]uuid.UUID, 0),
		Status:            StatusDraft,
	}
	s.AddDomainEvent(NewSessionCreatedEvent(s))
	return s, nil
}

// Slot returns the session's time slot
func (s *Session) Slot() resource.Slot {
	return resource.Slot{Start: s.StartsAt, End: s.EndsAt}
}

// ResourceRefs returns the resources this session books
func (s *Session) ResourceRefs() []resource.ResourceRef {
	refs := make([]resource.ResourceRef, 0, len(s.TrainerIDs)+2)
	for _, id := range s.TrainerIDs {
		refs = append(refs, resource.ResourceRef{Kind: resource.KindTrainer, ID: id})
	}
	if s.RoomID != nil {
		refs = append(refs, resource.ResourceRef{Kind: resource.KindRoom, ID: *s.RoomID})
	}
	if s.MobileUnitID != nil {
		refs = append(refs, resource.ResourceRef{Kind: resource.KindMobileUnit, ID: *s.MobileUnitID})
	}
	return refs
}

// BooksResources reports whether the session holds resource reservations.
// Draft and cancelled sessions never book.
func (s *Session) BooksResources() bool {
	return s.Status == StatusPlanned || s.Status == StatusConfirmed
}

// Reschedule moves the session to a new slot. Conflict checking is the
// caller's responsibility (the application service runs it before saving).
func (s *Session) Reschedule(startsAt, endsAt time.Time) error {
	if s.Status == StatusDelivered || s.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Delivered or cancelled sessions cannot be rescheduled")
	}
	if !endsAt.After(startsAt) {
		return shared.NewDomainError("INVALID_SLOT", "Session end must be after start")
	}
	if !sameDay(startsAt, endsAt) {
		return shared.NewDomainError("INVALID_SLOT", "Session must start and end on the same day")
	}

	from := s.Slot()
	s.StartsAt = startsAt
	s.EndsAt = endsAt
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSessionRescheduledEvent(s, from))
	return nil
}

// AssignTrainer adds a trainer to the session
func (s *Session) AssignTrainer(trainerID uuid.UUID) error {
	if s.Status == StatusDelivered || s.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign resources in current state")
	}
	for _, id := range s.TrainerIDs {
		if id == trainerID {
			return shared.NewDomainError("ALREADY_EXISTS", "Trainer is already assigned to this session")
		}
	}
	s.TrainerIDs = append(s.TrainerIDs, trainerID)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// UnassignTrainer removes a trainer from the session
func (s *Session) UnassignTrainer(trainerID uuid.UUID) error {
	if s.Status == StatusDelivered || s.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot unassign resources in current state")
	}
	for i, id := range s.TrainerIDs {
		if id == trainerID {
			s.TrainerIDs = append(s.TrainerIDs[:i], s.TrainerIDs[i+1:]...)
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Trainer is not assigned to this session")
}

// SetRoom assigns or clears the room
func (s *Session) SetRoom(roomID *uuid.UUID) error {
	if s.Status == StatusDelivered || s.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign resources in current state")
	}
	s.RoomID = roomID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetMobileUnit assigns or clears the mobile unit
func (s *Session) SetMobileUnit(unitID *uuid.UUID) error {
	if s.Status == StatusDelivered || s.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign resources in current state")
	}
	if unitID != nil && s.Modality != ModalityMobileUnit {
		return shared.NewDomainError("INVALID_STATE", "Only mobile-unit sessions can book a mobile unit")
	}
	s.MobileUnitID = unitID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// TransitionTo moves the session through its lifecycle
func (s *Session) TransitionTo(status SessionStatus) error {
	if s.Status == status {
		return nil
	}
	for _, allowed := range legalTransitions[s.Status] {
		if allowed == status {
			from := s.Status
			s.Status = status
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			s.AddDomainEvent(NewSessionStatusChangedEvent(s, from))
			return nil
		}
	}
	return shared.NewDomainError("INVALID_STATE",
		"Session cannot move from "+string(s.Status)+" to "+string(status))
}

// Cancel cancels the session with a reason
func (s *Session) Cancel(reason string) error {
	if err := s.TransitionTo(StatusCancelled); err != nil {
		return err
	}
	s.CancelReason = strings.TrimSpace(reason)
	return nil
}

// MarkDeliveredBySchedule is used by the nightly job that auto-delivers
// past-dated confirmed sessions; it flags the session for office review.
func (s *Session) MarkDeliveredBySchedule() error {
	if err := s.TransitionTo(StatusDelivered); err != nil {
		return err
	}
	s.PendingReview = true
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
