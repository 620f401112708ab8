package crm

import (
	"github.com/formax/backend/internal/domain/shared"
)

// Event types for the deal aggregate
const (
	EventTypeDealCreated      = "crm.deal.created"
	EventTypeDealStageChanged = "crm.deal.stage_changed"
)

// DealCreatedEvent is published when a deal is created
type DealCreatedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
	Stage DealStage `json:"stage"`
}

// NewDealCreatedEvent creates a DealCreatedEvent from a deal
func NewDealCreatedEvent(d *Deal) *DealCreatedEvent {
	return &DealCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealCreated, "Deal", d.ID),
		Title:           d.Title,
		Stage:           d.Stage,
	}
}

// DealStageChangedEvent is published when a deal moves between pipeline stages
type DealStageChangedEvent struct {
	shared.BaseDomainEvent
	FromStage DealStage `json:"from_stage"`
	ToStage   DealStage `json:"to_stage"`
}

// NewDealStageChangedEvent creates a DealStageChangedEvent
func NewDealStageChangedEvent(d *Deal, from DealStage) *DealStageChangedEvent {
	return &DealStageChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDealStageChanged, "Deal", d.ID),
		FromStage:       from,
		ToStage:         d.Stage,
	}
}
