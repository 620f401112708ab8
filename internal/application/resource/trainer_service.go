package resource

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TrainerService manages trainers and their unavailability windows
type TrainerService struct {
	trainerRepo        resource.TrainerRepository
	unavailabilityRepo resource.UnavailabilityRepository
}

// NewTrainerService creates a new TrainerService
func NewTrainerService(trainerRepo resource.TrainerRepository, unavailabilityRepo resource.UnavailabilityRepository) *TrainerService {
	return &TrainerService{
		trainerRepo:        trainerRepo,
		unavailabilityRepo: unavailabilityRepo,
	}
}

// CreateTrainer creates a trainer
func (s *TrainerService) CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*TrainerResponse, error) {
	trainer, err := resource.NewTrainer(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	trainer.Phone = req.Phone
	trainer.Province = req.Province
	trainer.Notes = req.Notes
	trainer.SetSpecialties(req.Specialties)
	if err := trainer.SetDailyRate(req.DailyRate); err != nil {
		return nil, err
	}

	if err := s.trainerRepo.Create(ctx, trainer); err != nil {
		return nil, err
	}
	resp := ToTrainerResponse(trainer)
	return &resp, nil
}

// GetTrainer returns a single trainer by ID
func (s *TrainerService) GetTrainer(ctx context.Context, id uuid.UUID) (*TrainerResponse, error) {
	trainer, err := s.findTrainer(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTrainerResponse(trainer)
	return &resp, nil
}

// ListTrainers returns a page of trainers
func (s *TrainerService) ListTrainers(ctx context.Context, filter ResourceListFilter) (*shared.Paginated[TrainerResponse], error) {
	f := listFilter(filter)
	trainers, total, err := s.trainerRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]TrainerResponse, len(trainers))
	for i := range trainers {
		items[i] = ToTrainerResponse(&trainers[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// UpdateTrainer updates mutable trainer fields
func (s *TrainerService) UpdateTrainer(ctx context.Context, id uuid.UUID, req UpdateTrainerRequest) (*TrainerResponse, error) {
	trainer, err := s.findTrainer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		trainer.Name = *req.Name
	}
	if req.Email != nil {
		trainer.Email = *req.Email
	}
	if req.Phone != nil {
		trainer.Phone = *req.Phone
	}
	if req.Province != nil {
		trainer.Province = *req.Province
	}
	if req.Specialties != nil {
		trainer.SetSpecialties(req.Specialties)
	}
	if req.DailyRate != nil {
		if err := trainer.SetDailyRate(*req.DailyRate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		trainer.Notes = *req.Notes
	}
	trainer.UpdatedAt = time.Now()
	trainer.IncrementVersion()

	if err := s.trainerRepo.Update(ctx, trainer); err != nil {
		return nil, err
	}
	resp := ToTrainerResponse(trainer)
	return &resp, nil
}

// DeactivateTrainer removes a trainer from the assignable pool
func (s *TrainerService) DeactivateTrainer(ctx context.Context, id uuid.UUID) error {
	trainer, err := s.findTrainer(ctx, id)
	if err != nil {
		return err
	}
	trainer.Deactivate()
	return s.trainerRepo.Update(ctx, trainer)
}

// ActivateTrainer returns a trainer to the assignable pool
func (s *TrainerService) ActivateTrainer(ctx context.Context, id uuid.UUID) error {
	trainer, err := s.findTrainer(ctx, id)
	if err != nil {
		return err
	}
	trainer.Activate()
	return s.trainerRepo.Update(ctx, trainer)
}

// AddUnavailability blocks a trainer for a date range
func (s *TrainerService) AddUnavailability(ctx context.Context, trainerID uuid.UUID, req AddUnavailabilityRequest) (*UnavailabilityResponse, error) {
	if _, err := s.findTrainer(ctx, trainerID); err != nil {
		return nil, err
	}
	window, err := resource.NewUnavailabilityWindow(trainerID, req.From, req.To, req.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.unavailabilityRepo.Create(ctx, window); err != nil {
		return nil, err
	}
	resp := ToUnavailabilityResponse(window)
	return &resp, nil
}

// ListUnavailability returns a trainer's windows intersecting [from, to]
func (s *TrainerService) ListUnavailability(ctx context.Context, trainerID uuid.UUID, from, to time.Time) ([]UnavailabilityResponse, error) {
	windows, err := s.unavailabilityRepo.FindByTrainer(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}
	responses := make([]UnavailabilityResponse, len(windows))
	for i := range windows {
		responses[i] = ToUnavailabilityResponse(&windows[i])
	}
	return responses, nil
}

// RemoveUnavailability deletes a window
func (s *TrainerService) RemoveUnavailability(ctx context.Context, windowID uuid.UUID) error {
	return s.unavailabilityRepo.Delete(ctx, windowID)
}

func (s *TrainerService) findTrainer(ctx context.Context, id uuid.UUID) (*resource.Trainer, error) {
	trainer, err := s.trainerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return nil, shared.ErrNotFound
	}
	return trainer, nil
}

func listFilter(filter ResourceListFilter) shared.Filter {
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
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}
	return f
}
