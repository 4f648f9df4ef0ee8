package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/shared"
)

// Cart holds the lines a user intends to order. Placing an order consumes it.
type Cart struct {
	shared.BaseEntity
	UserID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Items  []CartItem `gorm:"foreignKey:CartID;references:ID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one line of a cart
type CartItem struct {
	shared.BaseEntity
	CartID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductItemID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity      int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Items:      make([]CartItem, 0),
	}
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// BelongsTo reports whether the cart is owned by userID
func (c *Cart) BelongsTo(userID uuid.UUID) bool {
	return c.UserID == userID
}

// AddItem adds qty of a product item, merging with an existing line
func (c *Cart) AddItem(productItemID uuid.UUID, qty int) (*CartItem, error) {
	if qty <= 0 {
		return nil, shared.NewValidationError("quantity must be positive")
	}
	if productItemID == uuid.Nil {
		return nil, shared.NewValidationError("product item is required")
	}
	c.UpdatedAt = time.Now()
	for i := range c.Items {
		if c.Items[i].ProductItemID == productItemID {
			c.Items[i].Quantity += qty
			c.Items[i].UpdatedAt = c.UpdatedAt
			return &c.Items[i], nil
		}
	}
	c.Items = append(c.Items, CartItem{
		BaseEntity:    shared.NewBaseEntity(),
		CartID:        c.ID,
		ProductItemID: productItemID,
		Quantity:      qty,
	})
	return &c.Items[len(c.Items)-1], nil
}

// RemoveItem drops the line for a product item
func (c *Cart) RemoveItem(productItemID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ProductItemID == productItemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewNotFoundError("cart item")
}
