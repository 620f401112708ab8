package crm

import (
	"context"

	"github.com/formax/backend/internal/domain/crm"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DealService handles deal (presupuesto) operations for the local pipeline
type DealService struct {
	dealRepo       crm.DealRepository
	eventPublisher shared.EventPublisher
}

// NewDealService creates a new DealService
func NewDealService(dealRepo crm.DealRepository) *DealService {
	return &DealService{dealRepo: dealRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DealService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateDeal creates a local deal in the lead stage
func (s *DealService) CreateDeal(ctx context.Context, req CreateDealRequest) (*DealResponse, error) {
	deal, err := crm.NewDeal(req.Title, req.OrgName, req.Value, req.Currency)
	if err != nil {
		return nil, err
	}
	deal.SetContact(req.PersonName, req.PersonEmail)
	deal.SetExpectedCloseDate(req.ExpectedCloseDate)
	deal.Notes = req.Notes

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, deal)

	resp := ToDealResponse(deal)
	return &resp, nil
}

// GetDeal returns a single deal by ID
func (s *DealService) GetDeal(ctx context.Context, id uuid.UUID) (*DealResponse, error) {
	deal, err := s.findDeal(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDealResponse(deal)
	return &resp, nil
}

// ListDeals returns a page of deals
func (s *DealService) ListDeals(ctx context.Context, filter DealListFilter) (*shared.Paginated[DealResponse], error) {
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
	if filter.Stage != "" {
		f.Filters["stage"] = filter.Stage
	}

	deals, total, err := s.dealRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]DealResponse, len(deals))
	for i := range deals {
		items[i] = ToDealResponse(&deals[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// UpdateDeal updates mutable fields of a deal
func (s *DealService) UpdateDeal(ctx context.Context, id uuid.UUID, req UpdateDealRequest) (*DealResponse, error) {
	deal, err := s.findDeal(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		deal.Title = *req.Title
	}
	if req.OrgName != nil {
		deal.OrgName = *req.OrgName
	}
	if req.PersonName != nil || req.PersonEmail != nil {
		name, email := deal.PersonName, deal.PersonEmail
		if req.PersonName != nil {
			name = *req.PersonName
		}
		if req.PersonEmail != nil {
			email = *req.PersonEmail
		}
		deal.SetContact(name, email)
	}
	if req.Value != nil {
		currency := deal.Currency
		if req.Currency != nil {
			currency = *req.Currency
		}
		if err := deal.SetValue(*req.Value, currency); err != nil {
			return nil, err
		}
	}
	if req.ExpectedCloseDate != nil {
		deal.SetExpectedCloseDate(req.ExpectedCloseDate)
	}
	if req.OwnerID != nil {
		deal.SetOwner(req.OwnerID)
	}
	if req.Notes != nil {
		deal.Notes = *req.Notes
	}

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, err
	}
	resp := ToDealResponse(deal)
	return &resp, nil
}

// MoveStage moves a deal through the pipeline. Closed deals are immutable
// from the UI; only webhook imports may move them.
func (s *DealService) MoveStage(ctx context.Context, id uuid.UUID, req MoveStageRequest) (*DealResponse, error) {
	deal, err := s.findDeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := deal.MoveToStage(crm.DealStage(req.Stage), false); err != nil {
		return nil, err
	}
	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, deal)

	resp := ToDealResponse(deal)
	return &resp, nil
}

// DeleteDeal removes a deal
func (s *DealService) DeleteDeal(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findDeal(ctx, id); err != nil {
		return err
	}
	return s.dealRepo.Delete(ctx, id)
}

func (s *DealService) findDeal(ctx context.Context, id uuid.UUID) (*crm.Deal, error) {
	deal, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, shared.ErrNotFound
	}
	return deal, nil
}

func (s *DealService) publishEvents(ctx context.Context, deal *crm.Deal) {
	if s.eventPublisher == nil {
		return
	}
	events := deal.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	deal.ClearDomainEvents()
}
