package orders

import (
	"strings"
	"time"

	"github.com/formax/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaterialOrderStatus tracks fulfilment of training material for a session
type MaterialOrderStatus string

const (
	OrderStatusRequested MaterialOrderStatus = "requested"
	OrderStatusPrepared  MaterialOrderStatus = "prepared"
	OrderStatusShipped   MaterialOrderStatus = "shipped"
	OrderStatusDelivered MaterialOrderStatus = "delivered"
	OrderStatusCancelled MaterialOrderStatus = "cancelled"
)

var orderTransitions = map[MaterialOrderStatus][]MaterialOrderStatus{
	OrderStatusRequested: {OrderStatusPrepared, OrderStatusCancelled},
	OrderStatusPrepared:  {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// OrderLine is one material item on an order
type OrderLine struct {
	shared.BaseEntity
	OrderID  uuid.UUID
	Item     string // Free-text item name (manuals, extinguisher kits, PPE)
	Quantity int
	Note     string
}

// MaterialOrder requests training material to be prepared and shipped
// to a session's venue before the session starts.
type MaterialOrder struct {
	shared.BaseAggregateRoot
	SessionID   uuid.UUID
	Status      MaterialOrderStatus
	ShipTo      string // Venue address, free text
	NeededBy    time.Time
	Lines       []OrderLine
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelNote  string
}

func NewMaterialOrder(sessionID uuid.UUID, shipTo string, neededBy time.Time) (*MaterialOrder, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Material order requires a session")
	}
	if strings.TrimSpace(shipTo) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot be empty")
	}
	return &MaterialOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		Status:            OrderStatusRequested,
		ShipTo:            strings.TrimSpace(shipTo),
		NeededBy:          neededBy,
		Lines:             []OrderLine{},
	}, nil
}

// AddLine appends an item while the order is still being assembled
func (o *MaterialOrder) AddLine(item string, quantity int, note string) error {
	if o.Status != OrderStatusRequested {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to a requested order")
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return shared.NewDomainError("INVALID_ITEM", "Item name cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	o.Lines = append(o.Lines, OrderLine{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    o.ID,
		Item:       item,
		Quantity:   quantity,
		Note:       strings.TrimSpace(note),
	})
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// RemoveLine drops a line by ID while the order is still requested
func (o *MaterialOrder) RemoveLine(lineID uuid.UUID) error {
	if o.Status != OrderStatusRequested {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be removed from a requested order")
	}
	for i, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

func (o *MaterialOrder) canTransitionTo(target MaterialOrderStatus) bool {
	for _, allowed := range orderTransitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// MarkPrepared confirms the warehouse assembled all lines
func (o *MaterialOrder) MarkPrepared() error {
	if !o.canTransitionTo(OrderStatusPrepared) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be prepared from status "+string(o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order has no lines to prepare")
	}
	o.Status = OrderStatusPrepared
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

func (o *MaterialOrder) MarkShipped(at time.Time) error {
	if !o.canTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be shipped from status "+string(o.Status))
	}
	o.Status = OrderStatusShipped
	o.ShippedAt = &at
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

func (o *MaterialOrder) MarkDelivered(at time.Time) error {
	if !o.canTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be delivered from status "+string(o.Status))
	}
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &at
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Cancel abandons the order. Shipped and delivered orders cannot be cancelled.
func (o *MaterialOrder) Cancel(note string) error {
	if !o.canTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be cancelled from status "+string(o.Status))
	}
	o.Status = OrderStatusCancelled
	o.CancelNote = strings.TrimSpace(note)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}
