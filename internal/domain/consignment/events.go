package consignment

import (
	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EventTypeItemSubmitted is raised when a seller submits an item
const EventTypeItemSubmitted = "consignment.item_submitted"

// ItemSubmittedEvent is published after intake commits
type ItemSubmittedEvent struct {
	shared.EventHeader
	ConsignmentID uuid.UUID               `json:"consignment_id"`
	ItemID        uuid.UUID               `json:"consignment_item_id"`
	ProductItemID uuid.UUID               `json:"product_item_id"`
	SellerID      uuid.UUID               `json:"seller_id"`
	ItemType      catalog.ProductItemType `json:"product_item_type"`
	Fee           decimal.Decimal         `json:"fee"`
}

// NewItemSubmittedEvent creates a new ItemSubmittedEvent
func NewItemSubmittedEvent(c *Consignment, item *ConsignmentItem, itemType catalog.ProductItemType) *ItemSubmittedEvent {
	return &ItemSubmittedEvent{
		EventHeader: shared.NewEventHeader(EventTypeItemSubmitted, AggregateTypeConsignment, c.ID),
		ConsignmentID:   c.ID,
		ItemID:          item.ID,
		ProductItemID:   item.ProductItemID,
		SellerID:        c.UserID,
		ItemType:        itemType,
		Fee:             item.Fee,
	}
}
