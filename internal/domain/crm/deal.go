package crm

import (
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealStage is the pipeline stage of a deal
type DealStage string

const (
	StageLead      DealStage = "lead"
	StageQualified DealStage = "qualified"
	StageProposal  DealStage = "proposal"
	StageWon       DealStage = "won"
	StageLost      DealStage = "lost"
)

// ValidStage reports whether s is a known pipeline stage
func ValidStage(s DealStage) bool {
	switch s {
	case StageLead, StageQualified, StageProposal, StageWon, StageLost:
		return true
	}
	return false
}

// Deal (presupuesto) is a budget/opportunity, usually imported from
// Pipedrive. PipedriveID is zero for deals created locally.
type Deal struct {
	shared.BaseAggregateRoot
	PipedriveID       int64
	Title             string
	OrgName           string
	PersonName        string
	PersonEmail       string
	Stage             DealStage
	Value             decimal.Decimal
	Currency          string
	ExpectedCloseDate *time.Time
	OwnerID           *uuid.UUID // Local user responsible for the deal
	Notes             string
}

// NewDeal creates a deal in the lead stage
func NewDeal(title, orgName string, value decimal.Decimal, currency string) (*Deal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot be empty")
	}
	if len(title) > 300 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Deal title cannot exceed 300 characters")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUE", "Deal value cannot be negative")
	}
	if currency == "" {
		currency = "EUR"
	}

	deal := &Deal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		OrgName:           strings.TrimSpace(orgName),
		Stage:             StageLead,
		Value:             value,
		Currency:          strings.ToUpper(currency),
	}
	deal.AddDomainEvent(NewDealCreatedEvent(deal))
	return deal, nil
}

// IsClosed reports whether the deal reached a terminal stage
func (d *Deal) IsClosed() bool {
	return d.Stage == StageWon || d.Stage == StageLost
}

// MoveToStage transitions the deal. Local edits may not move a closed deal;
// webhook imports pass force=true because Pipedrive is the source of truth
// for its own deals.
func (d *Deal) MoveToStage(stage DealStage, force bool) error {
	if !ValidStage(stage) {
		return shared.NewDomainError("INVALID_STAGE", "Unknown deal stage: "+string(stage))
	}
	if d.IsClosed() && !force {
		return shared.NewDomainError("INVALID_STATE", "Closed deals cannot change stage")
	}
	if d.Stage == stage {
		return nil
	}

	from := d.Stage
	d.Stage = stage
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	d.AddDomainEvent(NewDealStageChangedEvent(d, from))
	return nil
}

// SetValue updates the monetary value
func (d *Deal) SetValue(value decimal.Decimal, currency string) error {
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Deal value cannot be negative")
	}
	d.Value = value
	if currency != "" {
		d.Currency = strings.ToUpper(currency)
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// SetContact sets the client contact details
func (d *Deal) SetContact(personName, personEmail string) {
	d.PersonName = strings.TrimSpace(personName)
	d.PersonEmail = strings.ToLower(strings.TrimSpace(personEmail))
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// SetOwner assigns the local user responsible for the deal
func (d *Deal) SetOwner(ownerID *uuid.UUID) {
	d.OwnerID = ownerID
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// SetExpectedCloseDate sets the expected close date
func (d *Deal) SetExpectedCloseDate(date *time.Time) {
	d.ExpectedCloseDate = date
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// LinkPipedrive attaches the Pipedrive deal ID after a webhook import
func (d *Deal) LinkPipedrive(pipedriveID int64) error {
	if pipedriveID <= 0 {
		return shared.NewDomainError("INVALID_PIPEDRIVE_ID", "Pipedrive ID must be positive")
	}
	d.PipedriveID = pipedriveID
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}
