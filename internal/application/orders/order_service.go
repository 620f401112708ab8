package orders

import (
	"context"
	"time"

	"github.com/formax/backend/internal/domain/orders"
	"github.com/formax/backend/internal/domain/shared"
	"github.com/formax/backend/internal/domain/training"
	"github.com/google/uuid"
)

// OrderService manages material orders attached to sessions
type OrderService struct {
	orderRepo   orders.MaterialOrderRepository
	sessionRepo training.SessionRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo orders.MaterialOrderRepository, sessionRepo training.SessionRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		sessionRepo: sessionRepo,
	}
}

// CreateOrder opens a material order for an upcoming session
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*MaterialOrderResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Session not found")
	}
	if session.Status == training.StatusCancelled || session.Status == training.StatusDelivered {
		return nil, shared.NewDomainError("INVALID_STATE", "Material cannot be ordered for a finished session")
	}

	order, err := orders.NewMaterialOrder(req.SessionID, req.ShipTo, req.NeededBy)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if err := order.AddLine(line.Item, line.Quantity, line.Note); err != nil {
			return nil, err
		}
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToMaterialOrderResponse(order)
	return &resp, nil
}

// GetOrder returns a single order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*MaterialOrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMaterialOrderResponse(order)
	return &resp, nil
}

// ListOrders returns a page of orders, optionally filtered by status
func (s *OrderService) ListOrders(ctx context.Context, filter OrderListFilter) (*shared.Paginated[MaterialOrderResponse], error) {
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

	page, err := s.orderRepo.FindByStatus(ctx, orders.MaterialOrderStatus(filter.Status), f)
	if err != nil {
		return nil, err
	}
	items := make([]MaterialOrderResponse, len(page.Items))
	for i, order := range page.Items {
		items[i] = ToMaterialOrderResponse(order)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListForSession returns all orders for one session
func (s *OrderService) ListForSession(ctx context.Context, sessionID uuid.UUID) ([]MaterialOrderResponse, error) {
	found, err := s.orderRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	responses := make([]MaterialOrderResponse, len(found))
	for i, order := range found {
		responses[i] = ToMaterialOrderResponse(order)
	}
	return responses, nil
}

// AddLine appends an item to a requested order
func (s *OrderService) AddLine(ctx context.Context, id uuid.UUID, req OrderLineRequest) (*MaterialOrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.AddLine(req.Item, req.Quantity, req.Note); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToMaterialOrderResponse(order)
	return &resp, nil
}

// RemoveLine drops an item from a requested order
func (s *OrderService) RemoveLine(ctx context.Context, id, lineID uuid.UUID) (*MaterialOrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToMaterialOrderResponse(order)
	return &resp, nil
}

// MarkPrepared moves the order to prepared
func (s *OrderService) MarkPrepared(ctx context.Context, id uuid.UUID) (*MaterialOrderResponse, error) {
	return s.apply(ctx, id, func(order *orders.MaterialOrder) error {
		return order.MarkPrepared()
	})
}

// MarkShipped moves the order to shipped
func (s *OrderService) MarkShipped(ctx context.Context, id uuid.UUID) (*MaterialOrderResponse, error) {
	return s.apply(ctx, id, func(order *orders.MaterialOrder) error {
		return order.MarkShipped(time.Now())
	})
}

// MarkDelivered moves the order to delivered
func (s *OrderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*MaterialOrderResponse, error) {
	return s.apply(ctx, id, func(order *orders.MaterialOrder) error {
		return order.MarkDelivered(time.Now())
	})
}

// CancelOrder abandons an order
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*MaterialOrderResponse, error) {
	return s.apply(ctx, id, func(order *orders.MaterialOrder) error {
		return order.Cancel(req.Note)
	})
}

func (s *OrderService) apply(ctx context.Context, id uuid.UUID, fn func(*orders.MaterialOrder) error) (*MaterialOrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToMaterialOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) findOrder(ctx context.Context, id uuid.UUID) (*orders.MaterialOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, shared.ErrNotFound
	}
	return order, nil
}
