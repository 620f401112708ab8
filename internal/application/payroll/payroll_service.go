package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/formax/backend/internal/domain/payroll"
	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/domain/training"
	"github.com/google/uuid"
)

// PayrollService computes and manages monthly trainer payroll runs.
// Session lines come from delivered sessions in the period at each
// trainer's daily rate; manual adjustments survive recomputes.
type PayrollService struct {
	payrollRepo payroll.PayrollRepository
	sessionRepo training.SessionRepository
	trainerRepo resource.TrainerRepository
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	sessionRepo training.SessionRepository,
	trainerRepo resource.TrainerRepository,
) *PayrollService {
	return &PayrollService{
		payrollRepo: payrollRepo,
		sessionRepo: sessionRepo,
		trainerRepo: trainerRepo,
	}
}

// Generate creates the run for a period, or recomputes its session lines
// if the run exists and is still open.
func (s *PayrollService) Generate(ctx context.Context, req GenerateRequest) (*PayrollResponse, error) {
	month := time.Month(req.Month)
	run, err := s.payrollRepo.FindByPeriod(ctx, req.Year, month)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if run == nil {
		run, err = payroll.NewPayrollMonth(req.Year, month)
		if err != nil {
			return nil, err
		}
	}

	lines, err := s.computeSessionLines(ctx, req.Year, month)
	if err != nil {
		return nil, err
	}
	if err := run.ReplaceSessionLines(lines); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(run)
	return &resp, nil
}

// computeSessionLines builds one line per trainer per delivered session in
// the period, priced at the trainer's current daily rate.
func (s *PayrollService) computeSessionLines(ctx context.Context, year int, month time.Month) ([]payroll.PayrollLine, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	sessions, err := s.sessionRepo.FindDeliveredBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rates := make(map[uuid.UUID]*resource.Trainer)
	lines := make([]payroll.PayrollLine, 0)
	for i := range sessions {
		session := &sessions[i]
		for _, trainerID := range session.TrainerIDs {
			trainer, ok := rates[trainerID]
			if !ok {
				trainer, err = s.trainerRepo.FindByID(ctx, trainerID)
				if err != nil {
					return nil, err
				}
				rates[trainerID] = trainer
			}
			if trainer == nil {
				continue
			}
			sessionID := session.ID
			lines = append(lines, payroll.PayrollLine{
				BaseEntity: shared.NewBaseEntity(),
				TrainerID:  trainerID,
				Kind:       payroll.LineKindSession,
				SessionID:  &sessionID,
				Concept:    fmt.Sprintf("%s (%s)", session.Title, session.StartsAt.Format("02/01/2006")),
				Amount:     trainer.DailyRate,
			})
		}
	}
	return lines, nil
}

// GetPayroll returns a single run by ID
func (s *PayrollService) GetPayroll(ctx context.Context, id uuid.UUID) (*PayrollResponse, error) {
	run, err := s.findRun(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(run)
	return &resp, nil
}

// GetByPeriod returns the run for a year and month
func (s *PayrollService) GetByPeriod(ctx context.Context, year, month int) (*PayrollResponse, error) {
	run, err := s.payrollRepo.FindByPeriod(ctx, year, time.Month(month))
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, shared.ErrNotFound
	}
	resp := ToPayrollResponse(run)
	return &resp, nil
}

// ListPayrolls returns a page of runs
func (s *PayrollService) ListPayrolls(ctx context.Context, filter PayrollListFilter) (*shared.Paginated[PayrollResponse], error) {
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

	page, err := s.payrollRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]PayrollResponse, len(page.Items))
	for i, run := range page.Items {
		items[i] = ToPayrollResponse(run)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// AddAdjustment adds a manual line to an open run
func (s *PayrollService) AddAdjustment(ctx context.Context, id uuid.UUID, req AdjustmentRequest) (*PayrollResponse, error) {
	run, err := s.findRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := run.AddAdjustment(req.TrainerID, req.Concept, req.Amount); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(run)
	return &resp, nil
}

// RemoveLine removes a line from an open run
func (s *PayrollService) RemoveLine(ctx context.Context, id, lineID uuid.UUID) (*PayrollResponse, error) {
	run, err := s.findRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := run.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(run)
	return &resp, nil
}

// Approve freezes the run
func (s *PayrollService) Approve(ctx context.Context, id, approvedBy uuid.UUID) (*PayrollResponse, error) {
	run, err := s.findRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := run.Approve(approvedBy); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(run)
	return &resp, nil
}

// MarkPaid records payment of an approved run
func (s *PayrollService) MarkPaid(ctx context.Context, id uuid.UUID) (*PayrollResponse, error) {
	run, err := s.findRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := run.MarkPaid(time.Now()); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, run); err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(run)
	return &resp, nil
}

func (s *PayrollService) findRun(ctx context.Context, id uuid.UUID) (*payroll.PayrollMonth, error) {
	run, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, shared.ErrNotFound
	}
	return run, nil
}
