package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollStatus is the lifecycle of a monthly trainer payroll run
type PayrollStatus string

const (
	PayrollStatusOpen     PayrollStatus = "open"
	PayrollStatusApproved PayrollStatus = "approved"
	PayrollStatusPaid     PayrollStatus = "paid"
)

// LineKind distinguishes computed session lines from manual adjustments
type LineKind string

const (
	LineKindSession    LineKind = "session"
	LineKindAdjustment LineKind = "adjustment"
)

// PayrollLine is one payable item for a trainer in a month
type PayrollLine struct {
	shared.BaseEntity
	PayrollID uuid.UUID
	TrainerID uuid.UUID
	Kind      LineKind
	SessionID *uuid.UUID // Set for session lines
	Concept   string
	Amount    decimal.Decimal // May be negative for adjustments
}

// PayrollMonth aggregates everything owed to trainers for one calendar
// month. Lines are recomputed freely while open; approval freezes the
// run and only payment can follow.
type PayrollMonth struct {
	shared.BaseAggregateRoot
	Year       int
	Month      time.Month
	Status     PayrollStatus
	Lines      []PayrollLine
	ApprovedAt *time.Time
	ApprovedBy *uuid.UUID
	PaidAt     *time.Time
}

func NewPayrollMonth(year int, month time.Month) (*PayrollMonth, error) {
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Payroll year out of range")
	}
	if month < time.January || month > time.December {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Invalid payroll month")
	}
	return &PayrollMonth{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Year:              year,
		Month:             month,
		Status:            PayrollStatusOpen,
		Lines:             []PayrollLine{},
	}, nil
}

// Period returns the run's period as "YYYY-MM"
func (p *PayrollMonth) Period() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p *PayrollMonth) mutable() error {
	if p.Status != PayrollStatusOpen {
		return shared.NewDomainError("PAYROLL_FROZEN", "Payroll "+p.Period()+" is "+string(p.Status)+" and cannot be modified")
	}
	return nil
}

// ReplaceSessionLines swaps all computed session lines with a fresh
// set, keeping manual adjustments in place.
func (p *PayrollMonth) ReplaceSessionLines(lines []PayrollLine) error {
	if err := p.mutable(); err != nil {
		return err
	}
	kept := make([]PayrollLine, 0, len(p.Lines))
	for _, line := range p.Lines {
		if line.Kind == LineKindAdjustment {
			kept = append(kept, line)
		}
	}
	for _, line := range lines {
		line.PayrollID = p.ID
		line.Kind = LineKindSession
		kept = append(kept, line)
	}
	p.Lines = kept
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// AddAdjustment adds a manual line, positive or negative
func (p *PayrollMonth) AddAdjustment(trainerID uuid.UUID, concept string, amount decimal.Decimal) error {
	if err := p.mutable(); err != nil {
		return err
	}
	if trainerID == uuid.Nil {
		return shared.NewDomainError("INVALID_TRAINER", "Adjustment requires a trainer")
	}
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return shared.NewDomainError("INVALID_CONCEPT", "Adjustment concept cannot be empty")
	}
	if amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount cannot be zero")
	}
	p.Lines = append(p.Lines, PayrollLine{
		BaseEntity: shared.NewBaseEntity(),
		PayrollID:  p.ID,
		TrainerID:  trainerID,
		Kind:       LineKindAdjustment,
		Concept:    concept,
		Amount:     amount,
	})
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// RemoveLine deletes a line by ID while the run is open
func (p *PayrollMonth) RemoveLine(lineID uuid.UUID) error {
	if err := p.mutable(); err != nil {
		return err
	}
	for i, line := range p.Lines {
		if line.ID == lineID {
			p.Lines = append(p.Lines[:i], p.Lines[i+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Total sums every line in the run
func (p *PayrollMonth) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		total = total.Add(line.Amount)
	}
	return total
}

// TotalForTrainer sums the lines belonging to one trainer
func (p *PayrollMonth) TotalForTrainer(trainerID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, line := range p.Lines {
		if line.TrainerID == trainerID {
			total = total.Add(line.Amount)
		}
	}
	return total
}

// Approve freezes the run. Empty runs cannot be approved.
func (p *PayrollMonth) Approve(approvedBy uuid.UUID) error {
	if p.Status != PayrollStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only an open payroll can be approved")
	}
	if len(p.Lines) == 0 {
		return shared.NewDomainError("EMPTY_PAYROLL", "Payroll has no lines to approve")
	}
	now := time.Now()
	p.Status = PayrollStatusApproved
	p.ApprovedAt = &now
	p.ApprovedBy = &approvedBy
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// MarkPaid records that transfers went out
func (p *PayrollMonth) MarkPaid(at time.Time) error {
	if p.Status != PayrollStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only an approved payroll can be paid")
	}
	p.Status = PayrollStatusPaid
	p.PaidAt = &at
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
