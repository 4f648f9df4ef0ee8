package consignment

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
)

// ConsignmentRepository defines the interface for consignment persistence
type ConsignmentRepository interface {
	// GetOrCreateByUser returns the user's consignment, creating it if absent.
	// Concurrent callers for the same user get the same row.
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*Consignment, error)

	FindByID(ctx context.Context, id uuid.UUID) (*Consignment, error)

	// FindAllWithItems lists every consignment with its items loaded
	FindAllWithItems(ctx context.Context) ([]Consignment, error)
}

// ItemRepository defines the interface for consignment item persistence
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ConsignmentItem, error)
	FindByProductItemID(ctx context.Context, productItemID uuid.UUID) (*ConsignmentItem, error)

	// FindByUser lists the items of the user's consignment
	FindByUser(ctx context.Context, userID uuid.UUID) ([]ConsignmentItem, error)

	// FindByItemType lists items whose product item has the given type
	FindByItemType(ctx context.Context, itemType catalog.ProductItemType) ([]ConsignmentItem, error)

	Create(ctx context.Context, item *ConsignmentItem) error
	SaveWithLock(ctx context.Context, item *ConsignmentItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}
