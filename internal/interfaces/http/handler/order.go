package handler

import (
	"context"

	ordersapp "github.com/formax/backend/internal/application/orders"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles material order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *ordersapp.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *ordersapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @Summary      Open material order
// @Description  Opens a material order tied to a scheduled session
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body ordersapp.CreateOrderRequest true "New order"
// @Success      201 {object} dto.Response{data=ordersapp.MaterialOrderResponse}
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req ordersapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// List returns material orders with optional status filter
func (h *OrderHandler) List(c *gin.Context) {
	var filter ordersapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single material order
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListForSession returns the orders tied to one session
func (h *OrderHandler) ListForSession(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	orders, err := h.orderService.ListForSession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// AddLine adds an item to an open order
func (h *OrderHandler) AddLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req ordersapp.OrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.AddLine(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveLine removes an item from an open order
func (h *OrderHandler) RemoveLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	lineID, ok := parseUUIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	order, err := h.orderService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// MarkPrepared marks an order as picked and packed
func (h *OrderHandler) MarkPrepared(c *gin.Context) {
	h.transition(c, h.orderService.MarkPrepared)
}

// MarkShipped marks an order as handed to the carrier
func (h *OrderHandler) MarkShipped(c *gin.Context) {
	h.transition(c, h.orderService.MarkShipped)
}

// MarkDelivered marks an order as received at the venue
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.orderService.MarkDelivered)
}

// Cancel cancels an order that has not shipped
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req ordersapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// transition runs one of the order status transitions behind a shared
// ID-parsing path
func (h *OrderHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, id uuid.UUID) (*ordersapp.MaterialOrderResponse, error),
) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
