package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/domain/training"
	"github.com/formax/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSessionRepository implements SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Create creates a new session with its trainer assignments
func (r *GormSessionRepository) Create(ctx context.Context, session *training.Session) error {
	model := models.SessionModelFromDomain(session)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return r.saveTrainers(tx, session)
	})
}

// Update updates an existing session and replaces its trainer assignments
func (r *GormSessionRepository) Update(ctx context.Context, session *training.Session) error {
	model := models.SessionModelFromDomain(session)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Save(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("session_id = ?", session.ID).
			Delete(&models.SessionTrainerModel{}).Error; err != nil {
			return err
		}
		return r.saveTrainers(tx, session)
	})
}

// Delete deletes a session and its trainer assignments
func (r *GormSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).
			Delete(&models.SessionTrainerModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.SessionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a session by ID including its trainer assignments
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*training.Session, error) {
	var model models.SessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	session := model.ToDomain()
	trainerIDs, err := r.loadTrainers(ctx, []uuid.UUID{session.ID})
	if err != nil {
		return nil, err
	}
	session.TrainerIDs = trainerIDs[session.ID]
	if session.TrainerIDs == nil {
		session.TrainerIDs = make([]uuid.UUID, 0)
	}
	return session, nil
}

// FindAll returns all sessions with pagination
func (r *GormSessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]training.Session, int64, error) {
	var sessionModels []models.SessionModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SessionModel{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, SessionSortFields, "starts_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	query = query.Offset(filter.Offset()).Limit(filter.PageSize)

	if err := query.Find(&sessionModels).Error; err != nil {
		return nil, 0, err
	}

	return r.toDomainSlice(ctx, sessionModels, &total)
}

// FindConfirmedEndedBefore returns confirmed sessions whose slot ended before
// the given time, oldest first. Used by the nightly auto-deliver job.
func (r *GormSessionRepository) FindConfirmedEndedBefore(ctx context.Context, before time.Time, limit int) ([]training.Session, error) {
	var sessionModels []models.SessionModel
	query := r.db.WithContext(ctx).
		Where("status = ? AND ends_at < ?", training.StatusConfirmed, before).
		Order("ends_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions, _, err := r.toDomainSlice(ctx, sessionModels, nil)
	return sessions, err
}

// FindDeliveredBetween returns delivered sessions starting in [from, to)
func (r *GormSessionRepository) FindDeliveredBetween(ctx context.Context, from, to time.Time) ([]training.Session, error) {
	var sessionModels []models.SessionModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND starts_at >= ? AND starts_at < ?", training.StatusDelivered, from, to).
		Order("starts_at ASC").
		Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions, _, err := r.toDomainSlice(ctx, sessionModels, nil)
	return sessions, err
}

// FindOverlapping returns bookings of planned and confirmed sessions whose
// slot overlaps the candidate slot on any of the given resources. Overlap is
// half-open: a session ending exactly when the slot starts does not clash.
// When excludeSessionID is set, that session's own bookings are skipped.
func (r *GormSessionRepository) FindOverlapping(ctx context.Context, refs []resource.ResourceRef, slot resource.Slot, excludeSessionID *uuid.UUID) ([]resource.Booking, error) {
	trainerIDs := make([]uuid.UUID, 0)
	roomIDs := make([]uuid.UUID, 0)
	unitIDs := make([]uuid.UUID, 0)
	for _, ref := range refs {
		switch ref.Kind {
		case resource.KindTrainer:
			trainerIDs = append(trainerIDs, ref.ID)
		case resource.KindRoom:
			roomIDs = append(roomIDs, ref.ID)
		case resource.KindMobileUnit:
			unitIDs = append(unitIDs, ref.ID)
		}
	}
	if len(trainerIDs) == 0 && len(roomIDs) == 0 && len(unitIDs) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("status IN ?", []training.SessionStatus{training.StatusPlanned, training.StatusConfirmed}).
		Where("starts_at < ? AND ends_at > ?", slot.End, slot.Start)
	if excludeSessionID != nil {
		query = query.Where("id <> ?", *excludeSessionID)
	}

	resourceMatch := r.db.Where("1 = 0")
	if len(roomIDs) > 0 {
		resourceMatch = resourceMatch.Or("room_id IN ?", roomIDs)
	}
	if len(unitIDs) > 0 {
		resourceMatch = resourceMatch.Or("mobile_unit_id IN ?", unitIDs)
	}
	if len(trainerIDs) > 0 {
		resourceMatch = resourceMatch.Or(
			"id IN (SELECT session_id FROM session_trainers WHERE trainer_id IN ?)", trainerIDs)
	}
	query = query.Where(resourceMatch)

	var sessionModels []models.SessionModel
	if err := query.Order("starts_at ASC").Find(&sessionModels).Error; err != nil {
		return nil, err
	}
	if len(sessionModels) == 0 {
		return nil, nil
	}

	sessionIDs := make([]uuid.UUID, len(sessionModels))
	for i := range sessionModels {
		sessionIDs[i] = sessionModels[i].ID
	}
	assignments, err := r.loadTrainers(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	wantTrainer := make(map[uuid.UUID]bool, len(trainerIDs))
	for _, id := range trainerIDs {
		wantTrainer[id] = true
	}
	wantRoom := make(map[uuid.UUID]bool, len(roomIDs))
	for _, id := range roomIDs {
		wantRoom[id] = true
	}
	wantUnit := make(map[uuid.UUID]bool, len(unitIDs))
	for _, id := range unitIDs {
		wantUnit[id] = true
	}

	bookings := make([]resource.Booking, 0)
	for i := range sessionModels {
		m := &sessionModels[i]
		bookingSlot := resource.Slot{Start: m.StartsAt, End: m.EndsAt}

		for _, trainerID := range assignments[m.ID] {
			if wantTrainer[trainerID] {
				bookings = append(bookings, resource.Booking{
					SessionID: m.ID,
					Resource:  resource.ResourceRef{Kind: resource.KindTrainer, ID: trainerID},
					Slot:      bookingSlot,
					Label:     m.Title,
				})
			}
		}
		if m.RoomID != nil && wantRoom[*m.RoomID] {
			bookings = append(bookings, resource.Booking{
				SessionID: m.ID,
				Resource:  resource.ResourceRef{Kind: resource.KindRoom, ID: *m.RoomID},
				Slot:      bookingSlot,
				Label:     m.Title,
			})
		}
		if m.MobileUnitID != nil && wantUnit[*m.MobileUnitID] {
			bookings = append(bookings, resource.Booking{
				SessionID: m.ID,
				Resource:  resource.ResourceRef{Kind: resource.KindMobileUnit, ID: *m.MobileUnitID},
				Slot:      bookingSlot,
				Label:     m.Title,
			})
		}
	}

	return bookings, nil
}

// applyFilter applies filter options to the query
func (r *GormSessionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR location ILIKE ?", searchPattern, searchPattern)
	}

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if modality, ok := filter.Filters["modality"]; ok {
		query = query.Where("modality = ?", modality)
	}
	if dealID, ok := filter.Filters["deal_id"]; ok {
		query = query.Where("deal_id = ?", dealID)
	}
	if courseID, ok := filter.Filters["course_id"]; ok {
		query = query.Where("course_id = ?", courseID)
	}
	if trainerID, ok := filter.Filters["trainer_id"]; ok {
		query = query.Where("id IN (SELECT session_id FROM session_trainers WHERE trainer_id = ?)", trainerID)
	}
	if from, ok := filter.Filters["from"]; ok {
		query = query.Where("starts_at >= ?", from)
	}
	if to, ok := filter.Filters["to"]; ok {
		query = query.Where("starts_at < ?", to)
	}
	if pending, ok := filter.Filters["pending_review"]; ok {
		query = query.Where("pending_review = ?", pending)
	}

	return query
}

// saveTrainers inserts the session's trainer assignments
func (r *GormSessionRepository) saveTrainers(tx *gorm.DB, session *training.Session) error {
	if len(session.TrainerIDs) == 0 {
		return nil
	}
	assignments := make([]models.SessionTrainerModel, len(session.TrainerIDs))
	for i, trainerID := range session.TrainerIDs {
		assignments[i] = models.SessionTrainerModel{
			SessionID: session.ID,
			TrainerID: trainerID,
			CreatedAt: time.Now(),
		}
	}
	return tx.Create(&assignments).Error
}

// loadTrainers loads trainer assignments for the given sessions
func (r *GormSessionRepository) loadTrainers(ctx context.Context, sessionIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	if len(sessionIDs) == 0 {
		return map[uuid.UUID][]uuid.UUID{}, nil
	}

	var assignments []models.SessionTrainerModel
	if err := r.db.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	bySession := make(map[uuid.UUID][]uuid.UUID, len(sessionIDs))
	for _, a := range assignments {
		bySession[a.SessionID] = append(bySession[a.SessionID], a.TrainerID)
	}
	return bySession, nil
}

// toDomainSlice converts session models to domain entities with trainers loaded
func (r *GormSessionRepository) toDomainSlice(ctx context.Context, sessionModels []models.SessionModel, total *int64) ([]training.Session, int64, error) {
	sessionIDs := make([]uuid.UUID, len(sessionModels))
	for i := range sessionModels {
		sessionIDs[i] = sessionModels[i].ID
	}
	assignments, err := r.loadTrainers(ctx, sessionIDs)
	if err != nil {
		return nil, 0, err
	}

	sessions := make([]training.Session, len(sessionModels))
	for i := range sessionModels {
		s := sessionModels[i].ToDomain()
		if ids, ok := assignments[s.ID]; ok {
			s.TrainerIDs = ids
		}
		sessions[i] = *s
	}

	var count int64
	if total != nil {
		count = *total
	}
	return sessions, count, nil
}

// Ensure GormSessionRepository implements SessionRepository
var _ training.SessionRepository = (*GormSessionRepository)(nil)
