package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/shared"
)

// OrderQuery narrows an order listing. Nil fields do not filter.
type OrderQuery struct {
	UserID  *uuid.UUID
	StaffID *uuid.UUID
	Status  *OrderStatus
	shared.Filter
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID loads the order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads the order with its items and locks its row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// Find lists orders with their items
	Find(ctx context.Context, query OrderQuery) ([]Order, error)

	// Create inserts the order and its items
	Create(ctx context.Context, order *Order) error

	// SaveWithLock updates the order's own columns if its version matches
	SaveWithLock(ctx context.Context, order *Order) error
}

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID loads the cart with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindByUser loads the user's cart with its items
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save creates or updates the cart and replaces its items
	Save(ctx context.Context, cart *Cart) error

	// Delete removes the cart and all of its items
	Delete(ctx context.Context, id uuid.UUID) error
}

// PromotionRepository defines the interface for promotion persistence
type PromotionRepository interface {
	FindByCode(ctx context.Context, code string) (*Promotion, error)
	FindAll(ctx context.Context) ([]Promotion, error)
}
