package training

import (
	"context"
	"fmt"
	"time"

	"github.com/formax/backend/internal/domain/catalog"
	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/domain/training"
	"github.com/google/uuid"
)

// ConflictError carries the conflict list so handlers can render it.
// It unwraps to shared.ErrResourceConflict for status mapping.
type ConflictError struct {
	Conflicts []resource.Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflicts with %d existing booking(s)", len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return shared.ErrResourceConflict
}

// SessionService handles session scheduling. Every operation that books or
// moves resources runs the conflict check before persisting, so a stored
// planned or confirmed session is never double-booked.
type SessionService struct {
	sessionRepo    training.SessionRepository
	productRepo    catalog.ProductRepository
	conflicts      *resource.ConflictService
	eventPublisher shared.EventPublisher
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessionRepo training.SessionRepository,
	productRepo catalog.ProductRepository,
	conflicts *resource.ConflictService,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		productRepo: productRepo,
		conflicts:   conflicts,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SessionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateSession creates a draft session. Drafts hold no bookings, so no
// conflict check runs here.
func (s *SessionService) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Course not found")
	}
	if !product.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Course is no longer in the catalog")
	}

	session, err := training.NewSession(req.CourseID, req.Title, req.StartsAt, req.EndsAt, training.Modality(req.Modality))
	if err != nil {
		return nil, err
	}
	session.DealID = req.DealID
	session.VariantID = req.VariantID
	session.Location = req.Location
	session.Seats = req.Seats

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, session)

	resp := ToSessionResponse(session)
	return &resp, nil
}

// GetSession returns a single session by ID
func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

// ListSessions returns a page of sessions
func (s *SessionService) ListSessions(ctx context.Context, filter SessionListFilter) (*shared.Paginated[SessionResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Modality != "" {
		f.Filters["modality"] = filter.Modality
	}
	if filter.TrainerID != nil {
		f.Filters["trainer_id"] = *filter.TrainerID
	}
	if filter.DealID != nil {
		f.Filters["deal_id"] = *filter.DealID
	}
	if filter.From != nil {
		f.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		f.Filters["to"] = *filter.To
	}

	sessions, total, err := s.sessionRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]SessionResponse, len(sessions))
	for i := range sessions {
		items[i] = ToSessionResponse(&sessions[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// UpdateSession updates descriptive fields that never affect bookings
func (s *SessionService) UpdateSession(ctx context.Context, id uuid.UUID, req UpdateSessionRequest) (*SessionResponse, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		session.Title = *req.Title
	}
	if req.Location != nil {
		session.Location = *req.Location
	}
	if req.Seats != nil {
		session.Seats = *req.Seats
	}
	if req.DeliveryNotes != nil {
		session.DeliveryNotes = *req.DeliveryNotes
	}
	session.UpdatedAt = time.Now()
	session.IncrementVersion()

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

// Reschedule moves a session to a new slot. Booked sessions are checked
// against their own resources with themselves excluded.
func (s *SessionService) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*SessionResponse, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.BooksResources() {
		slot := resource.Slot{Start: req.StartsAt, End: req.EndsAt}
		if err := s.ensureFree(ctx, slot, session.ResourceRefs(), &session.ID); err != nil {
			return nil, err
		}
	}
	if err := session.Reschedule(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, session)

	resp := ToSessionResponse(session)
	return &resp, nil
}

// AssignResources adjusts trainers, room and mobile unit in one operation.
// For a booked session the full resulting resource set must be free.
func (s *SessionService) AssignResources(ctx context.Context, id uuid.UUID, req AssignResourcesRequest) (*SessionResponse, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, trainerID := range req.AddTrainerIDs {
		if err := session.AssignTrainer(trainerID); err != nil {
			return nil, err
		}
	}
	for _, trainerID := range req.RemoveTrainerIDs {
		if err := session.UnassignTrainer(trainerID); err != nil {
			return nil, err
		}
	}
	if req.ClearRoom {
		if err := session.SetRoom(nil); err != nil {
			return nil, err
		}
	} else if req.RoomID != nil {
		if err := session.SetRoom(req.RoomID); err != nil {
			return nil, err
		}
	}
	if req.ClearMobileUnit {
		if err := session.SetMobileUnit(nil); err != nil {
			return nil, err
		}
	} else if req.MobileUnitID != nil {
		if err := session.SetMobileUnit(req.MobileUnitID); err != nil {
			return nil, err
		}
	}

	if session.BooksResources() {
		if err := s.ensureFree(ctx, session.Slot(), session.ResourceRefs(), &session.ID); err != nil {
			return nil, err
		}
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

// Transition moves a session through its lifecycle. Entering a booking
// state (planned, confirmed) requires the slot to be free.
func (s *SessionService) Transition(ctx context.Context, id uuid.UUID, req TransitionRequest) (*SessionResponse, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}

	target := training.SessionStatus(req.Status)
	wasBooking := session.BooksResources()
	willBook := target == training.StatusPlanned || target == training.StatusConfirmed
	if willBook && !wasBooking {
		if err := s.ensureFree(ctx, session.Slot(), session.ResourceRefs(), &session.ID); err != nil {
			return nil, err
		}
	}

	if err := session.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, session)

	resp := ToSessionResponse(session)
	return &resp, nil
}

// Cancel cancels a session, releasing its bookings
func (s *SessionService) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*SessionResponse, error) {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, session)

	resp := ToSessionResponse(session)
	return &resp, nil
}

// DeleteSession removes a draft session. Anything further along must be
// cancelled instead so the history is preserved.
func (s *SessionService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	session, err := s.findSession(ctx, id)
	if err != nil {
		return err
	}
	if session.Status != training.StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft sessions can be deleted; cancel instead")
	}
	return s.sessionRepo.Delete(ctx, id)
}

// CheckConflicts answers an ad-hoc availability query from the planning UI
func (s *SessionService) CheckConflicts(ctx context.Context, req ConflictCheckRequest) (*ConflictCheckResponse, error) {
	slot := resource.Slot{Start: req.StartsAt, End: req.EndsAt}
	conflicts, err := s.conflicts.Check(ctx, slot, req.ResourceRefs(), req.ExcludeSessionID)
	if err != nil {
		return nil, err
	}
	if conflicts == nil {
		conflicts = []resource.Conflict{}
	}
	return &ConflictCheckResponse{Conflicts: conflicts}, nil
}

// AutoDeliverPastSessions marks confirmed sessions whose slot has passed as
// delivered, flagged for office review. Run daily by the scheduler.
func (s *SessionService) AutoDeliverPastSessions(ctx context.Context, now time.Time, limit int) (int, error) {
	sessions, err := s.sessionRepo.FindConfirmedEndedBefore(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for i := range sessions {
		session := &sessions[i]
		if err := session.MarkDeliveredBySchedule(); err != nil {
			continue
		}
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			return delivered, err
		}
		s.publishEvents(ctx, session)
		delivered++
	}
	return delivered, nil
}

func (s *SessionService) ensureFree(ctx context.Context, slot resource.Slot, refs []resource.ResourceRef, excludeID *uuid.UUID) error {
	conflicts, err := s.conflicts.Check(ctx, slot, refs, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}

func (s *SessionService) findSession(ctx context.Context, id uuid.UUID) (*training.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, shared.ErrNotFound
	}
	return session, nil
}

func (s *SessionService) publishEvents(ctx context.Context, session *training.Session) {
	if s.eventPublisher == nil {
		return
	}
	events := session.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	session.ClearDomainEvents()
}
