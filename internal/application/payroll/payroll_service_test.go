package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/formax/backend/internal/domain/payroll"
	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/domain/training"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPayrollRepository is a mock implementation of payroll.PayrollRepository
type MockPayrollRepository struct {
	mock.Mock
}

func (m *MockPayrollRepository) Save(ctx context.Context, run *payroll.PayrollMonth) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockPayrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.PayrollMonth, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.PayrollMonth), args.Error(1)
}

func (m *MockPayrollRepository) FindByPeriod(ctx context.Context, year int, month time.Month) (*payroll.PayrollMonth, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.PayrollMonth), args.Error(1)
}

func (m *MockPayrollRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*payroll.PayrollMonth], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*payroll.PayrollMonth]), args.Error(1)
}

func (m *MockPayrollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSessionRepository mocks the subset of training.SessionRepository the
// payroll run uses; the rest panics if reached.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *training.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepository) Update(ctx context.Context, s *training.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*training.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*training.Session), args.Error(1)
}

func (m *MockSessionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]training.Session, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]training.Session), args.Get(1).(int64), args.Error(2)
}

func (m *MockSessionRepository) FindConfirmedEndedBefore(ctx context.Context, before time.Time, limit int) ([]training.Session, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).([]training.Session), args.Error(1)
}

func (m *MockSessionRepository) FindDeliveredBetween(ctx context.Context, from, to time.Time) ([]training.Session, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]training.Session), args.Error(1)
}

func (m *MockSessionRepository) FindOverlapping(ctx context.Context, refs []resource.ResourceRef, slot resource.Slot, excludeSessionID *uuid.UUID) ([]resource.Booking, error) {
	args := m.Called(ctx, refs, slot, excludeSessionID)
	return args.Get(0).([]resource.Booking), args.Error(1)
}

// MockTrainerRepository is a mock implementation of resource.TrainerRepository
type MockTrainerRepository struct {
	mock.Mock
}

func (m *MockTrainerRepository) Create(ctx context.Context, t *resource.Trainer) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTrainerRepository) Update(ctx context.Context, t *resource.Trainer) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTrainerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTrainerRepository) FindByID(ctx context.Context, id uuid.UUID) (*resource.Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resource.Trainer), args.Error(1)
}

func (m *MockTrainerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]resource.Trainer, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]resource.Trainer), args.Get(1).(int64), args.Error(2)
}

func deliveredSessionFor(t *testing.T, trainerID uuid.UUID, day time.Time, title string) training.Session {
	t.Helper()
	session, err := training.NewSession(uuid.New(), title,
		day.Add(9*time.Hour), day.Add(13*time.Hour), training.ModalityOnSite)
	require.NoError(t, err)
	require.NoError(t, session.AssignTrainer(trainerID))
	require.NoError(t, session.TransitionTo(training.StatusPlanned))
	require.NoError(t, session.TransitionTo(training.StatusConfirmed))
	require.NoError(t, session.TransitionTo(training.StatusDelivered))
	return *session
}

func rateTrainer(t *testing.T, rate int64) *resource.Trainer {
	t.Helper()
	trainer, err := resource.NewTrainer("Carlos Vega", "carlos@formax.es")
	require.NoError(t, err)
	require.NoError(t, trainer.SetDailyRate(decimal.NewFromInt(rate)))
	return trainer
}

func TestPayrollServiceGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("builds one line per trainer per delivered session", func(t *testing.T) {
		payrollRepo := new(MockPayrollRepository)
		sessionRepo := new(MockSessionRepository)
		trainerRepo := new(MockTrainerRepository)
		svc := NewPayrollService(payrollRepo, sessionRepo, trainerRepo)

		trainer := rateTrainer(t, 180)
		day1 := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
		day2 := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
		sessions := []training.Session{
			deliveredSessionFor(t, trainer.ID, day1, "PCI basico - Acme"),
			deliveredSessionFor(t, trainer.ID, day2, "PCI avanzado - Beta"),
		}

		payrollRepo.On("FindByPeriod", ctx, 2026, time.March).Return(nil, shared.ErrNotFound)
		sessionRepo.On("FindDeliveredBetween", ctx, mock.Anything, mock.Anything).Return(sessions, nil)
		trainerRepo.On("FindByID", ctx, trainer.ID).Return(trainer, nil)
		payrollRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.Generate(ctx, GenerateRequest{Year: 2026, Month: 3})
		require.NoError(t, err)
		assert.Equal(t, "2026-03", resp.Period)
		require.Len(t, resp.Lines, 2)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(360)))
		require.Len(t, resp.TrainerTotals, 1)
		assert.True(t, resp.TrainerTotals[0].Total.Equal(decimal.NewFromInt(360)))
		trainerRepo.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("recompute keeps adjustments", func(t *testing.T) {
		payrollRepo := new(MockPayrollRepository)
		sessionRepo := new(MockSessionRepository)
		trainerRepo := new(MockTrainerRepository)
		svc := NewPayrollService(payrollRepo, sessionRepo, trainerRepo)

		trainer := rateTrainer(t, 200)
		run, err := payroll.NewPayrollMonth(2026, time.March)
		require.NoError(t, err)
		require.NoError(t, run.AddAdjustment(trainer.ID, "Kilometraje", decimal.NewFromInt(42)))

		day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		sessions := []training.Session{deliveredSessionFor(t, trainer.ID, day, "PCI basico")}

		payrollRepo.On("FindByPeriod", ctx, 2026, time.March).Return(run, nil)
		sessionRepo.On("FindDeliveredBetween", ctx, mock.Anything, mock.Anything).Return(sessions, nil)
		trainerRepo.On("FindByID", ctx, trainer.ID).Return(trainer, nil)
		payrollRepo.On("Save", ctx, run).Return(nil)

		resp, err := svc.Generate(ctx, GenerateRequest{Year: 2026, Month: 3})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 2)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(242)))
	})

	t.Run("approved run cannot be regenerated", func(t *testing.T) {
		payrollRepo := new(MockPayrollRepository)
		sessionRepo := new(MockSessionRepository)
		trainerRepo := new(MockTrainerRepository)
		svc := NewPayrollService(payrollRepo, sessionRepo, trainerRepo)

		trainer := rateTrainer(t, 200)
		run, err := payroll.NewPayrollMonth(2026, time.March)
		require.NoError(t, err)
		require.NoError(t, run.AddAdjustment(trainer.ID, "Plus", decimal.NewFromInt(10)))
		require.NoError(t, run.Approve(uuid.New()))

		payrollRepo.On("FindByPeriod", ctx, 2026, time.March).Return(run, nil)
		sessionRepo.On("FindDeliveredBetween", ctx, mock.Anything, mock.Anything).Return([]training.Session{}, nil)

		_, err = svc.Generate(ctx, GenerateRequest{Year: 2026, Month: 3})
		assert.Error(t, err)
		payrollRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("deleted trainer is skipped", func(t *testing.T) {
		payrollRepo := new(MockPayrollRepository)
		sessionRepo := new(MockSessionRepository)
		trainerRepo := new(MockTrainerRepository)
		svc := NewPayrollService(payrollRepo, sessionRepo, trainerRepo)

		missingID := uuid.New()
		day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		sessions := []training.Session{deliveredSessionFor(t, missingID, day, "PCI basico")}

		payrollRepo.On("FindByPeriod", ctx, 2026, time.March).Return(nil, shared.ErrNotFound)
		sessionRepo.On("FindDeliveredBetween", ctx, mock.Anything, mock.Anything).Return(sessions, nil)
		trainerRepo.On("FindByID", ctx, missingID).Return(nil, nil)
		payrollRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.Generate(ctx, GenerateRequest{Year: 2026, Month: 3})
		require.NoError(t, err)
		assert.Empty(t, resp.Lines)
	})
}

func TestPayrollServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("approve then pay", func(t *testing.T) {
		payrollRepo := new(MockPayrollRepository)
		svc := NewPayrollService(payrollRepo, new(MockSessionRepository), new(MockTrainerRepository))

		trainer := rateTrainer(t, 180)
		run, err := payroll.NewPayrollMonth(2026, time.March)
		require.NoError(t, err)
		require.NoError(t, run.AddAdjustment(trainer.ID, "Plus", decimal.NewFromInt(50)))

		payrollRepo.On("FindByID", ctx, run.ID).Return(run, nil)
		payrollRepo.On("Save", ctx, run).Return(nil)

		approver := uuid.New()
		resp, err := svc.Approve(ctx, run.ID, approver)
		require.NoError(t, err)
		assert.Equal(t, payroll.PayrollStatusApproved, resp.Status)

		resp, err = svc.MarkPaid(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, payroll.PayrollStatusPaid, resp.Status)
	})
}
