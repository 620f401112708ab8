package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/formax/backend/internal/domain/orders"
	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/domain/training"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMaterialOrderRepository is a mock implementation of orders.MaterialOrderRepository
type MockMaterialOrderRepository struct {
	mock.Mock
}

func (m *MockMaterialOrderRepository) Save(ctx context.Context, order *orders.MaterialOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockMaterialOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*orders.MaterialOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orders.MaterialOrder), args.Error(1)
}

func (m *MockMaterialOrderRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*orders.MaterialOrder, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]*orders.MaterialOrder), args.Error(1)
}

func (m *MockMaterialOrderRepository) FindByStatus(ctx context.Context, status orders.MaterialOrderStatus, filter shared.Filter) (*shared.Paginated[*orders.MaterialOrder], error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*orders.MaterialOrder]), args.Error(1)
}

func (m *MockMaterialOrderRepository) FindDueBefore(ctx context.Context, deadline time.Time) ([]*orders.MaterialOrder, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]*orders.MaterialOrder), args.Error(1)
}

func (m *MockMaterialOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockSessionRepository is a mock implementation of training.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *training.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *training.Session) error {
	return m.Called(ctx, session).Error(0)
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

func plannedSession(t *testing.T) *training.Session {
	t.Helper()
	day := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	session, err := training.NewSession(uuid.New(), "Forklift training",
		day, day.Add(8*time.Hour), training.ModalityOnSite)
	require.NoError(t, err)
	require.NoError(t, session.TransitionTo(training.StatusPlanned))
	return session
}

func requestedOrder(t *testing.T, lines int) *orders.MaterialOrder {
	t.Helper()
	order, err := orders.NewMaterialOrder(uuid.New(), "Training room, Radom", time.Now().AddDate(0, 0, 7))
	require.NoError(t, err)
	for i := 0; i < lines; i++ {
		require.NoError(t, order.AddLine("Course manual", 10, ""))
	}
	return order
}

func TestOrderServiceCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an order with lines for an upcoming session", func(t *testing.T) {
		orderRepo := new(MockMaterialOrderRepository)
		sessionRepo := new(MockSessionRepository)
		svc := NewOrderService(orderRepo, sessionRepo)

		session := plannedSession(t)
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)
		orderRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := svc.CreateOrder(ctx, CreateOrderRequest{
			SessionID: session.ID,
			ShipTo:    "Acme Logistics, Gate 4",
			NeededBy:  session.StartsAt.AddDate(0, 0, -2),
			Lines: []OrderLineRequest{
				{Item: "Course manual", Quantity: 12},
				{Item: "Safety vests", Quantity: 12, Note: "Size L"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, orders.OrderStatusRequested, resp.Status)
		assert.Len(t, resp.Lines, 2)
		orderRepo.AssertExpectations(t)
	})

	t.Run("rejects an unknown session", func(t *testing.T) {
		orderRepo := new(MockMaterialOrderRepository)
		sessionRepo := new(MockSessionRepository)
		svc := NewOrderService(orderRepo, sessionRepo)

		sessionID := uuid.New()
		sessionRepo.On("FindByID", ctx, sessionID).Return(nil, nil)

		_, err := svc.CreateOrder(ctx, CreateOrderRequest{
			SessionID: sessionID,
			ShipTo:    "Somewhere",
			NeededBy:  time.Now(),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("rejects a cancelled session", func(t *testing.T) {
		orderRepo := new(MockMaterialOrderRepository)
		sessionRepo := new(MockSessionRepository)
		svc := NewOrderService(orderRepo, sessionRepo)

		session := plannedSession(t)
		require.NoError(t, session.Cancel("client withdrew"))
		sessionRepo.On("FindByID", ctx, session.ID).Return(session, nil)

		_, err := svc.CreateOrder(ctx, CreateOrderRequest{
			SessionID: session.ID,
			ShipTo:    "Somewhere",
			NeededBy:  time.Now(),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderServiceLines(t *testing.T) {
	ctx := context.Background()

	t.Run("adds and removes lines on a requested order", func(t *testing.T) {
		orderRepo := new(MockMaterialOrderRepository)
		svc := NewOrderService(orderRepo, new(MockSessionRepository))

		order := requestedOrder(t, 1)
		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		orderRepo.On("Save", ctx, order).Return(nil)

		resp, err := svc.AddLine(ctx, order.ID, OrderLineRequest{Item: "Extinguisher kit", Quantity: 2})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 2)

		resp, err = svc.RemoveLine(ctx, order.ID, resp.Lines[0].ID)
		require.NoError(t, err)
		assert.Len(t, resp.Lines, 1)
	})

	t.Run("refuses line edits once prepared", func(t *testing.T) {
		orderRepo := new(MockMaterialOrderRepository)
		svc := NewOrderService(orderRepo, new(MockSessionRepository))

		order := requestedOrder(t, 1)
		require.NoError(t, order.MarkPrepared())
		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := svc.AddLine(ctx, order.ID, OrderLineRequest{Item: "Late addition", Quantity: 1})
		require.Error(t, err)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("walks requested through to delivered", func(t *testing.T) {
		orderRepo := new(MockMaterialOrderRepository)
		svc := NewOrderService(orderRepo, new(MockSessionRepository))

		order := requestedOrder(t, 2)
		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		orderRepo.On("Save", ctx, order).Return(nil)

		resp, err := svc.MarkPrepared(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, orders.OrderStatusPrepared, resp.Status)

		resp, err = svc.MarkShipped(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, orders.OrderStatusShipped, resp.Status)
		require.NotNil(t, resp.ShippedAt)

		resp, err = svc.MarkDelivered(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, orders.OrderStatusDelivered, resp.Status)
		require.NotNil(t, resp.DeliveredAt)
	})

	t.Run("cannot prepare an empty order", func(t *testing.T) {
		orderRepo := new(MockMaterialOrderRepository)
		svc := NewOrderService(orderRepo, new(MockSessionRepository))

		order := requestedOrder(t, 0)
		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := svc.MarkPrepared(ctx, order.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_ORDER", domainErr.Code)
	})

	t.Run("cancel records the note", func(t *testing.T) {
		orderRepo := new(MockMaterialOrderRepository)
		svc := NewOrderService(orderRepo, new(MockSessionRepository))

		order := requestedOrder(t, 1)
		orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		orderRepo.On("Save", ctx, order).Return(nil)

		resp, err := svc.CancelOrder(ctx, order.ID, CancelOrderRequest{Note: "Client postponed"})
		require.NoError(t, err)
		assert.Equal(t, orders.OrderStatusCancelled, resp.Status)
		assert.Equal(t, "Client postponed", resp.CancelNote)
	})

	t.Run("missing order maps to not found", func(t *testing.T) {
		orderRepo := new(MockMaterialOrderRepository)
		svc := NewOrderService(orderRepo, new(MockSessionRepository))

		id := uuid.New()
		orderRepo.On("FindByID", ctx, id).Return(nil, nil)

		_, err := svc.MarkShipped(ctx, id)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
