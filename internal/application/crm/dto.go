package crm

import (
	"time"

	"github.com/formax/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DealResponse represents a deal in API responses
type DealResponse struct {
	ID                uuid.UUID       `json:"id"`
	PipedriveID       int64           `json:"pipedrive_id,omitempty"`
	Title             string          `json:"title"`
	OrgName           string          `json:"org_name"`
	PersonName        string          `json:"person_name,omitempty"`
	PersonEmail       string          `json:"person_email,omitempty"`
	Stage             crm.DealStage   `json:"stage"`
	Value             decimal.Decimal `json:"value"`
	Currency          string          `json:"currency"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	OwnerID           *uuid.UUID      `json:"owner_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToDealResponse converts a deal aggregate to its API representation
func ToDealResponse(deal *crm.Deal) DealResponse {
	return DealResponse{
		ID:                deal.ID,
		PipedriveID:       deal.PipedriveID,
		Title:             deal.Title,
		OrgName:           deal.OrgName,
		PersonName:        deal.PersonName,
		PersonEmail:       deal.PersonEmail,
		Stage:             deal.Stage,
		Value:             deal.Value,
		Currency:          deal.Currency,
		ExpectedCloseDate: deal.ExpectedCloseDate,
		OwnerID:           deal.OwnerID,
		Notes:             deal.Notes,
		CreatedAt:         deal.CreatedAt,
		UpdatedAt:         deal.UpdatedAt,
	}
}

// CreateDealRequest creates a deal locally (not imported from Pipedrive)
type CreateDealRequest struct {
	Title             string          `json:"title" binding:"required,max=300"`
	OrgName           string          `json:"org_name" binding:"max=300"`
	PersonName        string          `json:"person_name" binding:"max=200"`
	PersonEmail       string          `json:"person_email" binding:"omitempty,email"`
	Value             decimal.Decimal `json:"value"`
	Currency          string          `json:"currency" binding:"omitempty,len=3"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date"`
	Notes             string          `json:"notes"`
}

// UpdateDealRequest updates mutable deal fields
type UpdateDealRequest struct {
	Title             *string          `json:"title" binding:"omitempty,max=300"`
	OrgName           *string          `json:"org_name" binding:"omitempty,max=300"`
	PersonName        *string          `json:"person_name"`
	PersonEmail       *string          `json:"person_email" binding:"omitempty,email"`
	Value             *decimal.Decimal `json:"value"`
	Currency          *string          `json:"currency" binding:"omitempty,len=3"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date"`
	OwnerID           *uuid.UUID       `json:"owner_id"`
	Notes             *string          `json:"notes"`
}

// MoveStageRequest moves a deal to another pipeline stage
type MoveStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// DealListFilter represents filter options for the deal list
type DealListFilter struct {
	Search   string `form:"search"`
	Stage    string `form:"stage"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PipedriveWebhook is the envelope Pipedrive posts on deal changes.
// Only the fields this system consumes are mapped.
type PipedriveWebhook struct {
	Meta    PipedriveMeta  `json:"meta" binding:"required"`
	Current *PipedriveDeal `json:"current"`
}

// PipedriveMeta identifies the event; ID dedupes redeliveries
type PipedriveMeta struct {
	ID     string `json:"id" binding:"required"`
	Action string `json:"action"`
	Entity string `json:"entity"`
}

// PipedriveDeal is the deal payload inside a webhook
type PipedriveDeal struct {
	ID                int64           `json:"id" binding:"required"`
	Title             string          `json:"title"`
	OrgName           string          `json:"org_name"`
	PersonName        string          `json:"person_name"`
	Value             decimal.Decimal `json:"value"`
	Currency          string          `json:"currency"`
	StageName         string          `json:"stage_name"`
	Status            string          `json:"status"` // open, won, lost, deleted
	ExpectedCloseDate string          `json:"expected_close_date"`
}

// WebhookResult reports what the webhook import did
type WebhookResult struct {
	Duplicate bool       `json:"duplicate"`
	Created   bool       `json:"created"`
	DealID    *uuid.UUID `json:"deal_id,omitempty"`
}
