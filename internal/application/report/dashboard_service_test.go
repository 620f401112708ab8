package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/formax/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDashboardRepository is a mock implementation of report.DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) CountSessionsByStatus(ctx context.Context, from, to time.Time) ([]report.SessionCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.SessionCount), args.Error(1)
}

func (m *MockDashboardRepository) PipelineByStage(ctx context.Context) ([]report.PipelineValue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.PipelineValue), args.Error(1)
}

func (m *MockDashboardRepository) UpcomingSessions(ctx context.Context, from time.Time, days, limit int) ([]report.UpcomingSession, error) {
	args := m.Called(ctx, from, days, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.UpcomingSession), args.Error(1)
}

func (m *MockDashboardRepository) TrainerLoads(ctx context.Context, from, to time.Time, limit int) ([]report.TrainerLoad, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.TrainerLoad), args.Error(1)
}

func (m *MockDashboardRepository) CountPendingReviewSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountOpenMaterialOrders(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountCertificatesIssued(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func TestDashboardServiceGetDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("assembles all dashboard sections", func(t *testing.T) {
		repo := new(MockDashboardRepository)
		svc := NewDashboardService(repo)

		counts := []report.SessionCount{{Status: "planned", Count: 4}, {Status: "confirmed", Count: 2}}
		pipeline := []report.PipelineValue{{Stage: "proposal", Count: 3, Value: decimal.NewFromInt(14400)}}
		agenda := []report.UpcomingSession{{SessionID: uuid.New(), Title: "Forklift training", Status: "confirmed"}}
		loads := []report.TrainerLoad{{TrainerID: uuid.New(), TrainerName: "Anna Kowalska", Sessions: 5}}

		repo.On("CountSessionsByStatus", ctx, mock.Anything, mock.Anything).Return(counts, nil)
		repo.On("PipelineByStage", ctx).Return(pipeline, nil)
		repo.On("UpcomingSessions", ctx, mock.Anything, 7, 50).Return(agenda, nil)
		repo.On("TrainerLoads", ctx, mock.Anything, mock.Anything, 10).Return(loads, nil)
		repo.On("CountPendingReviewSessions", ctx).Return(int64(1), nil)
		repo.On("CountOpenMaterialOrders", ctx).Return(int64(3), nil)
		repo.On("CountCertificatesIssued", ctx, mock.Anything, mock.Anything).Return(int64(12), nil)

		resp, err := svc.GetDashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, counts, resp.SessionsByStatus)
		assert.Equal(t, pipeline, resp.Pipeline)
		assert.Equal(t, agenda, resp.WeekAgenda)
		assert.Equal(t, loads, resp.TrainerLoads)
		assert.Equal(t, int64(1), resp.PendingReview)
		assert.Equal(t, int64(3), resp.OpenMaterialOrders)
		assert.Equal(t, int64(12), resp.CertificatesMonth)
		assert.False(t, resp.GeneratedAt.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("queries the current calendar month", func(t *testing.T) {
		repo := new(MockDashboardRepository)
		svc := NewDashboardService(repo)

		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		monthEnd := monthStart.AddDate(0, 1, 0)

		repo.On("CountSessionsByStatus", ctx, monthStart, monthEnd).Return([]report.SessionCount{}, nil)
		repo.On("PipelineByStage", ctx).Return([]report.PipelineValue{}, nil)
		repo.On("UpcomingSessions", ctx, mock.Anything, 7, 50).Return([]report.UpcomingSession{}, nil)
		repo.On("TrainerLoads", ctx, monthStart, monthEnd, 10).Return([]report.TrainerLoad{}, nil)
		repo.On("CountPendingReviewSessions", ctx).Return(int64(0), nil)
		repo.On("CountOpenMaterialOrders", ctx).Return(int64(0), nil)
		repo.On("CountCertificatesIssued", ctx, monthStart, monthEnd).Return(int64(0), nil)

		_, err := svc.GetDashboard(ctx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("propagates query failures", func(t *testing.T) {
		repo := new(MockDashboardRepository)
		svc := NewDashboardService(repo)

		repo.On("CountSessionsByStatus", ctx, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		_, err := svc.GetDashboard(ctx)
		require.Error(t, err)
		repo.AssertNotCalled(t, "PipelineByStage", mock.Anything)
	})
}
