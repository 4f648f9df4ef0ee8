package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// CreateOrderRequest checks a cart out into an order
type CreateOrderRequest struct {
	CartID        uuid.UUID `json:"cartId" binding:"required"`
	PromotionCode string    `json:"promotionCode" binding:"max=50"`
}

// UpdateOrderStatusRequest overwrites an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignStaffRequest hands an order to a staff member
type AssignStaffRequest struct {
	StaffID uuid.UUID `json:"staffId" binding:"required"`
}

// SetDeliveredRequest records delivery of an order
type SetDeliveredRequest struct {
	Delivered *bool `json:"delivered" binding:"required"`
}

// OrderListFilter narrows and pages an order listing
type OrderListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// OrderItemResponse is one order line resolved to its product
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	Kind              string          `json:"kind"`
	ProductItemID     *uuid.UUID      `json:"productItemId,omitempty"`
	ConsignmentItemID *uuid.UUID      `json:"consignmentItemId,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	Name              string          `json:"name,omitempty"`
	Price             decimal.Decimal `json:"price"`
	ImageURL          string          `json:"imageUrl,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"userId"`
	StaffID     *uuid.UUID          `json:"staffId,omitempty"`
	PromotionID *uuid.UUID          `json:"promotionId,omitempty"`
	Status      string              `json:"status"`
	Total       decimal.Decimal     `json:"total"`
	Address     string              `json:"address"`
	IsDelivered bool                `json:"isDelivered"`
	Items       []OrderItemResponse `json:"items"`
	Version     int                 `json:"version"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// SellerNotificationResult is the outcome of one sold notification
type SellerNotificationResult struct {
	ProductItemID uuid.UUID `json:"productItemId"`
	Email         string    `json:"email,omitempty"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
}

// ToOrderResponse converts a domain order to a response. Lines are resolved
// against products when the product is in the map.
func ToOrderResponse(o *trade.Order, products map[uuid.UUID]*catalog.ProductItem) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, line := range o.Items {
		item := OrderItemResponse{
			ID:                line.ID,
			Kind:              string(line.Kind),
			ProductItemID:     line.ProductItemID,
			ConsignmentItemID: line.ConsignmentItemID,
			Quantity:          line.Quantity,
			UnitPrice:         line.UnitPrice,
			Price:             line.UnitPrice,
		}
		if line.ProductItemID != nil {
			if p, ok := products[*line.ProductItemID]; ok {
				item.Name = p.Name
				item.ImageURL = p.ImageURL
				if line.Kind == trade.LineKindProduct {
					item.Price = p.Price
				}
			}
		}
		items[i] = item
	}
	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		StaffID:     o.StaffID,
		PromotionID: o.PromotionID,
		Status:      o.Status.String(),
		Total:       o.Total,
		Address:     o.Address,
		IsDelivered: o.IsDelivered,
		Items:       items,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ==================== Cart DTOs ====================

// AddCartItemRequest adds a product item to the caller's cart
type AddCartItemRequest struct {
	ProductItemID uuid.UUID `json:"productItemId" binding:"required"`
	Quantity      int       `json:"quantity" binding:"required,min=1"`
}

// CartItemResponse is one cart line
type CartItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductItemID uuid.UUID `json:"productItemId"`
	Quantity      int       `json:"quantity"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID     uuid.UUID          `json:"id"`
	UserID uuid.UUID          `json:"userId"`
	Items  []CartItemResponse `json:"items"`
}

// ToCartResponse converts a domain cart to a response
func ToCartResponse(c *trade.Cart) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i, line := range c.Items {
		items[i] = CartItemResponse{
			ID:            line.ID,
			ProductItemID: line.ProductItemID,
			Quantity:      line.Quantity,
		}
	}
	return CartResponse{ID: c.ID, UserID: c.UserID, Items: items}
}

// ==================== Promotion DTOs ====================

// PromotionResponse represents a promotion in API responses
type PromotionResponse struct {
	ID     uuid.UUID       `json:"id"`
	Code   string          `json:"code"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Valid  bool            `json:"valid"`
}

// ToPromotionResponse converts a domain promotion to a response
func ToPromotionResponse(p *trade.Promotion) PromotionResponse {
	return PromotionResponse{
		ID:     p.ID,
		Code:   p.Code,
		Type:   string(p.Type),
		Amount: p.Amount,
		Valid:  p.IsValid(),
	}
}
