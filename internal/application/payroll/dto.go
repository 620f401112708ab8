package payroll

import (
	"time"

	"github.com/formax/backend/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollLineResponse represents a payroll line in API responses
type PayrollLineResponse struct {
	ID        uuid.UUID        `json:"id"`
	TrainerID uuid.UUID        `json:"trainer_id"`
	Kind      payroll.LineKind `json:"kind"`
	SessionID *uuid.UUID       `json:"session_id,omitempty"`
	Concept   string           `json:"concept"`
	Amount    decimal.Decimal  `json:"amount"`
}

// TrainerTotal is one trainer's total for the month
type TrainerTotal struct {
	TrainerID uuid.UUID       `json:"trainer_id"`
	Total     decimal.Decimal `json:"total"`
}

// PayrollResponse represents a payroll run in API responses
type PayrollResponse struct {
	ID            uuid.UUID             `json:"id"`
	Period        string                `json:"period"`
	Status        payroll.PayrollStatus `json:"status"`
	Lines         []PayrollLineResponse `json:"lines"`
	Total         decimal.Decimal       `json:"total"`
	TrainerTotals []TrainerTotal        `json:"trainer_totals"`
	ApprovedAt    *time.Time            `json:"approved_at,omitempty"`
	ApprovedBy    *uuid.UUID            `json:"approved_by,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ToPayrollResponse converts a payroll run to its API representation
func ToPayrollResponse(p *payroll.PayrollMonth) PayrollResponse {
	lines := make([]PayrollLineResponse, len(p.Lines))
	totals := make(map[uuid.UUID]decimal.Decimal)
	order := make([]uuid.UUID, 0)
	for i, line := range p.Lines {
		lines[i] = PayrollLineResponse{
			ID:        line.ID,
			TrainerID: line.TrainerID,
			Kind:      line.Kind,
			SessionID: line.SessionID,
			Concept:   line.Concept,
			Amount:    line.Amount,
		}
		if _, seen := totals[line.TrainerID]; !seen {
			order = append(order, line.TrainerID)
		}
		totals[line.TrainerID] = totals[line.TrainerID].Add(line.Amount)
	}
	trainerTotals := make([]TrainerTotal, len(order))
	for i, trainerID := range order {
		trainerTotals[i] = TrainerTotal{TrainerID: trainerID, Total: totals[trainerID]}
	}
	return PayrollResponse{
		ID:            p.ID,
		Period:        p.Period(),
		Status:        p.Status,
		Lines:         lines,
		Total:         p.Total(),
		TrainerTotals: trainerTotals,
		ApprovedAt:    p.ApprovedAt,
		ApprovedBy:    p.ApprovedBy,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// GenerateRequest creates or recomputes the run for a period
type GenerateRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// AdjustmentRequest adds a manual line to an open run
type AdjustmentRequest struct {
	TrainerID uuid.UUID       `json:"trainer_id" binding:"required"`
	Concept   string          `json:"concept" binding:"required,max=300"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// PayrollListFilter represents filter options for the payroll list
type PayrollListFilter struct {
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
