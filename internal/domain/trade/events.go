package trade

import (
	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeOrderPlaced        = "order.placed"
	EventTypeOrderCancelled     = "order.cancelled"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderLineEvent is the event payload for one order line
type OrderLineEvent struct {
	Kind              LineKind        `json:"kind"`
	ProductItemID     *uuid.UUID      `json:"product_item_id,omitempty"`
	ConsignmentItemID *uuid.UUID      `json:"consignment_item_id,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
}

func lineEvents(o *Order) []OrderLineEvent {
	lines := make([]OrderLineEvent, len(o.Items))
	for i, item := range o.Items {
		lines[i] = OrderLineEvent{
			Kind:              item.Kind,
			ProductItemID:     item.ProductItemID,
			ConsignmentItemID: item.ConsignmentItemID,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
		}
	}
	return lines
}

// OrderPlacedEvent is published when an order is placed
type OrderPlacedEvent struct {
	shared.EventHeader
	OrderID     uuid.UUID        `json:"order_id"`
	UserID      uuid.UUID        `json:"user_id"`
	PromotionID *uuid.UUID       `json:"promotion_id,omitempty"`
	Total       decimal.Decimal  `json:"total"`
	Lines       []OrderLineEvent `json:"lines"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		EventHeader: shared.NewEventHeader(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		PromotionID:     o.PromotionID,
		Total:           o.Total,
		Lines:           lineEvents(o),
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.EventHeader
	OrderID uuid.UUID        `json:"order_id"`
	UserID  uuid.UUID        `json:"user_id"`
	Lines   []OrderLineEvent `json:"lines"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		EventHeader: shared.NewEventHeader(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Lines:           lineEvents(o),
	}
}

// OrderStatusChangedEvent is published when a status is overwritten
type OrderStatusChangedEvent struct {
	shared.EventHeader
	OrderID   uuid.UUID   `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, old OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		EventHeader: shared.NewEventHeader(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OldStatus:       old,
		NewStatus:       o.Status,
	}
}
