package orders

import (
	"context"
	"fmt"

	"github.com/formax/backend/internal/domain/orders"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/domain/training"
	"go.uber.org/zap"
)

// SessionCancelledHandler cancels open material orders when their session
// is cancelled, so logistics does not prepare or ship material for a
// session that will never run. Shipped and delivered orders are left
// alone; those need a manual return.
type SessionCancelledHandler struct {
	orderService *OrderService
	logger       *zap.Logger
}

// NewSessionCancelledHandler creates a new handler for session status events
func NewSessionCancelledHandler(orderService *OrderService, logger *zap.Logger) *SessionCancelledHandler {
	return &SessionCancelledHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SessionCancelledHandler) EventTypes() []string {
	return []string{training.EventTypeSessionStatusChanged}
}

// Handle cancels the session's open material orders on a transition to cancelled
func (h *SessionCancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	statusEvent, ok := event.(*training.SessionStatusChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", training.EventTypeSessionStatusChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			training.EventTypeSessionStatusChanged, event.EventType())
	}

	if statusEvent.ToStatus != training.StatusCancelled {
		return nil
	}

	sessionID := event.AggregateID()
	found, err := h.orderService.ListForSession(ctx, sessionID)
	if err != nil {
		h.logger.Error("failed to list material orders for cancelled session",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to list material orders: %w", err)
	}

	cancelled := 0
	for _, order := range found {
		switch order.Status {
		case orders.OrderStatusRequested, orders.OrderStatusPrepared:
		default:
			continue
		}
		if _, err := h.orderService.CancelOrder(ctx, order.ID, CancelOrderRequest{
			Note: "Session cancelled",
		}); err != nil {
			h.logger.Error("failed to cancel material order for cancelled session",
				zap.String("session_id", sessionID.String()),
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
			return fmt.Errorf("failed to cancel material order %s: %w", order.ID, err)
		}
		cancelled++
	}

	if cancelled > 0 {
		h.logger.Info("material orders cancelled with session",
			zap.String("session_id", sessionID.String()),
			zap.Int("orders_cancelled", cancelled),
		)
	}

	return nil
}

var _ shared.EventHandler = (*SessionCancelledHandler)(nil)
