package crm

import (
	"context"
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/crm"
	"github.com/formax/backend/internal/domain/shared"
)

// webhookDedupTTL is how long processed webhook event IDs are remembered.
// Pipedrive retries deliveries for up to three days.
const webhookDedupTTL = 72 * time.Hour

// pipedriveStageMap translates Pipedrive stage names to local stages.
// Unknown open stages fall back to qualified.
var pipedriveStageMap = map[string]crm.DealStage{
	"lead in":        crm.StageLead,
	"contact made":   crm.StageLead,
	"qualified":      crm.StageQualified,
	"needs analysis": crm.StageQualified,
	"proposal made":  crm.StageProposal,
	"negotiation":    crm.StageProposal,
}

// PipedriveService imports deal changes pushed by Pipedrive webhooks.
// Pipedrive is the source of truth for its own deals: imports apply
// stage changes with force, bypassing the local closed-deal guard.
type PipedriveService struct {
	dealRepo       crm.DealRepository
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
}

// NewPipedriveService creates a new PipedriveService
func NewPipedriveService(dealRepo crm.DealRepository, idempotency shared.IdempotencyStore) *PipedriveService {
	return &PipedriveService{
		dealRepo:    dealRepo,
		idempotency: idempotency,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PipedriveService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// HandleWebhook processes one webhook delivery. Redelivered events are
// acknowledged without re-applying; unknown entities are ignored.
func (s *PipedriveService) HandleWebhook(ctx context.Context, payload PipedriveWebhook) (*WebhookResult, error) {
	if payload.Meta.Entity != "" && payload.Meta.Entity != "deal" {
		return &WebhookResult{}, nil
	}
	if payload.Current == nil || payload.Current.ID <= 0 {
		return nil, shared.NewDomainError("INVALID_WEBHOOK", "Webhook payload has no deal body")
	}

	fresh, err := s.idempotency.MarkProcessed(ctx, payload.Meta.ID, webhookDedupTTL)
	if err != nil {
		return nil, err
	}
	if !fresh {
		return &WebhookResult{Duplicate: true}, nil
	}

	result, err := s.applyDelivery(ctx, payload.Current)
	if err != nil {
		// Drop the dedup mark so Pipedrive's automatic redelivery gets
		// another attempt instead of being acknowledged as a duplicate.
		_ = s.idempotency.Forget(ctx, payload.Meta.ID)
		return nil, err
	}
	return result, nil
}

// applyDelivery imports or updates the deal carried by a fresh delivery.
func (s *PipedriveService) applyDelivery(ctx context.Context, pd *PipedriveDeal) (*WebhookResult, error) {
	deal, err := s.dealRepo.FindByPipedriveID(ctx, pd.ID)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}

	if deal == nil {
		created, err := s.importNewDeal(ctx, pd)
		if err != nil {
			return nil, err
		}
		return &WebhookResult{Created: true, DealID: &created.ID}, nil
	}

	if err := s.applyUpdate(ctx, deal, pd); err != nil {
		return nil, err
	}
	return &WebhookResult{DealID: &deal.ID}, nil
}

func (s *PipedriveService) importNewDeal(ctx context.Context, pd *PipedriveDeal) (*crm.Deal, error) {
	deal, err := crm.NewDeal(pd.Title, pd.OrgName, pd.Value, pd.Currency)
	if err != nil {
		return nil, err
	}
	if err := deal.LinkPipedrive(pd.ID); err != nil {
		return nil, err
	}
	deal.SetContact(pd.PersonName, "")
	if date := parseCloseDate(pd.ExpectedCloseDate); date != nil {
		deal.SetExpectedCloseDate(date)
	}
	if err := deal.MoveToStage(mapStage(pd), true); err != nil {
		return nil, err
	}

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, deal)
	return deal, nil
}

func (s *PipedriveService) applyUpdate(ctx context.Context, deal *crm.Deal, pd *PipedriveDeal) error {
	if pd.Title != "" {
		deal.Title = pd.Title
	}
	if pd.OrgName != "" {
		deal.OrgName = pd.OrgName
	}
	if pd.PersonName != "" {
		deal.SetContact(pd.PersonName, deal.PersonEmail)
	}
	if err := deal.SetValue(pd.Value, pd.Currency); err != nil {
		return err
	}
	if date := parseCloseDate(pd.ExpectedCloseDate); date != nil {
		deal.SetExpectedCloseDate(date)
	}
	if err := deal.MoveToStage(mapStage(pd), true); err != nil {
		return err
	}

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return err
	}
	s.publishEvents(ctx, deal)
	return nil
}

// mapStage resolves the local stage from Pipedrive's status and stage name.
// Won and lost status win over any stage name.
func mapStage(pd *PipedriveDeal) crm.DealStage {
	switch strings.ToLower(pd.Status) {
	case "won":
		return crm.StageWon
	case "lost", "deleted":
		return crm.StageLost
	}
	if stage, ok := pipedriveStageMap[strings.ToLower(pd.StageName)]; ok {
		return stage
	}
	return crm.StageQualified
}

func parseCloseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &date
}

func (s *PipedriveService) publishEvents(ctx context.Context, deal *crm.Deal) {
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
