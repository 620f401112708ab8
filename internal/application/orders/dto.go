package orders

import (
	"time"

	"github.com/formax/backend/internal/domain/orders"
	"github.com/google/uuid"
)

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID       uuid.UUID `json:"id"`
	Item     string    `json:"item"`
	Quantity int       `json:"quantity"`
	Note     string    `json:"note,omitempty"`
}

// MaterialOrderResponse represents a material order in API responses
type MaterialOrderResponse struct {
	ID          uuid.UUID                  `json:"id"`
	SessionID   uuid.UUID                  `json:"session_id"`
	Status      orders.MaterialOrderStatus `json:"status"`
	ShipTo      string                     `json:"ship_to"`
	NeededBy    time.Time                  `json:"needed_by"`
	Lines       []OrderLineResponse        `json:"lines"`
	ShippedAt   *time.Time                 `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time                 `json:"delivered_at,omitempty"`
	CancelNote  string                     `json:"cancel_note,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// ToMaterialOrderResponse converts an order aggregate to its API representation
func ToMaterialOrderResponse(o *orders.MaterialOrder) MaterialOrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = OrderLineResponse{
			ID:       line.ID,
			Item:     line.Item,
			Quantity: line.Quantity,
			Note:     line.Note,
		}
	}
	return MaterialOrderResponse{
		ID:          o.ID,
		SessionID:   o.SessionID,
		Status:      o.Status,
		ShipTo:      o.ShipTo,
		NeededBy:    o.NeededBy,
		Lines:       lines,
		ShippedAt:   o.ShippedAt,
		DeliveredAt: o.DeliveredAt,
		CancelNote:  o.CancelNote,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// CreateOrderRequest opens a material order for a session
type CreateOrderRequest struct {
	SessionID uuid.UUID          `json:"session_id" binding:"required"`
	ShipTo    string             `json:"ship_to" binding:"required,max=500"`
	NeededBy  time.Time          `json:"needed_by" binding:"required"`
	Lines     []OrderLineRequest `json:"lines" binding:"dive"`
}

// OrderLineRequest is one item on a create or add-line request
type OrderLineRequest struct {
	Item     string `json:"item" binding:"required,max=300"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Note     string `json:"note" binding:"max=300"`
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Note string `json:"note" binding:"max=300"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
