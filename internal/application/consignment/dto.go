package consignment

import (
	"time"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/consignment"
	"github.com/shopspring/decimal"
)

// IntakeRequest is a seller's submission of one koi
type IntakeRequest struct {
	CategoryID     uuid.UUID        `json:"categoryId" binding:"required"`
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	SalePrice      *decimal.Decimal `json:"salePrice"`
	Origin         string           `json:"origin" binding:"max=100"`
	Sex            string           `json:"sex" binding:"max=20"`
	Age            int              `json:"age" binding:"min=0"`
	Size           string           `json:"size" binding:"max=50"`
	Species        string           `json:"species" binding:"max=100"`
	Personality    string           `json:"personality" binding:"max=200"`
	FoodAmount     string           `json:"foodAmount" binding:"max=100"`
	WaterTemp      string           `json:"waterTemp" binding:"max=50"`
	MineralContent string           `json:"mineralContent" binding:"max=100"`
	PH             string           `json:"ph" binding:"max=20"`
	ImageURL       string           `json:"imageUrl" binding:"max=500"`
}

func (r IntakeRequest) attributes() catalog.Attributes {
	return catalog.Attributes{
		Name:           r.Name,
		Origin:         r.Origin,
		Sex:            r.Sex,
		Age:            r.Age,
		Size:           r.Size,
		Species:        r.Species,
		Personality:    r.Personality,
		FoodAmount:     r.FoodAmount,
		WaterTemp:      r.WaterTemp,
		MineralContent: r.MineralContent,
		PH:             r.PH,
		ImageURL:       r.ImageURL,
	}
}

// UpdateItemRequest edits a pending item. Name applies to both the
// consignment item and its product item; Fee applies to the consignment
// item only; the rest apply to the product item.
type UpdateItemRequest struct {
	Name     *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Fee      *decimal.Decimal `json:"fee" binding:"omitempty,decimalgte0"`
	Price    *decimal.Decimal `json:"price" binding:"omitempty,decimalgte0"`
	Quantity *int             `json:"quantity" binding:"omitempty,min=0"`
	Type     *string          `json:"type" binding:"omitempty,max=50"`
	ImageURL *string          `json:"imageUrl" binding:"omitempty,max=500"`
}

func (r UpdateItemRequest) itemPatch() consignment.ItemPatch {
	return consignment.ItemPatch{Name: r.Name, Fee: r.Fee}
}

func (r UpdateItemRequest) productPatch() catalog.Patch {
	return catalog.Patch{
		Name:     r.Name,
		Price:    r.Price,
		Quantity: r.Quantity,
		Type:     r.Type,
		ImageURL: r.ImageURL,
	}
}

// ReviewItemRequest moves an item along its review lifecycle
type ReviewItemRequest struct {
	Status string `json:"status" binding:"required,oneof=Approved Rejected Sold CheckedOut"`
}

// CheckoutRequest checks a boarded koi out of healthcare
type CheckoutRequest struct {
	ProductItemID uuid.UUID `json:"productItemId" binding:"required"`
}

// ConsignmentItemResponse represents a consignment item in API responses
type ConsignmentItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ConsignmentID uuid.UUID       `json:"consignmentId"`
	ProductItemID uuid.UUID       `json:"productItemId"`
	Name          string          `json:"name"`
	Fee           decimal.Decimal `json:"fee"`
	Status        string          `json:"status"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// IntakeResponse is the outcome of an intake
type IntakeResponse struct {
	Item        ConsignmentItemResponse `json:"item"`
	ProductItem ProductItemSummary      `json:"productItem"`
}

// ProductItemSummary is the priced product item created by intake
type ProductItemSummary struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ItemType string          `json:"productItemType"`
	Quantity int             `json:"quantity"`
}

// ConsignmentResponse represents a consignment with its items
type ConsignmentResponse struct {
	ID        uuid.UUID                 `json:"id"`
	UserID    uuid.UUID                 `json:"userId"`
	Items     []ConsignmentItemResponse `json:"items"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// CheckoutResponse is the order created by a healthcare checkout
type CheckoutResponse struct {
	OrderID uuid.UUID       `json:"orderId"`
	Days    int             `json:"days"`
	Fee     decimal.Decimal `json:"fee"`
	Total   decimal.Decimal `json:"total"`
	Status  string          `json:"status"`
}

// ToConsignmentItemResponse converts a domain item to a response
func ToConsignmentItemResponse(item *consignment.ConsignmentItem) ConsignmentItemResponse {
	return ConsignmentItemResponse{
		ID:            item.ID,
		ConsignmentID: item.ConsignmentID,
		ProductItemID: item.ProductItemID,
		Name:          item.Name,
		Fee:           item.Fee,
		Status:        item.Status.String(),
		Version:       item.Version,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

// ToConsignmentItemResponses converts a slice of domain items
func ToConsignmentItemResponses(items []consignment.ConsignmentItem) []ConsignmentItemResponse {
	responses := make([]ConsignmentItemResponse, len(items))
	for i := range items {
		responses[i] = ToConsignmentItemResponse(&items[i])
	}
	return responses
}

// ToConsignmentResponse converts a domain consignment to a response
func ToConsignmentResponse(c *consignment.Consignment) ConsignmentResponse {
	return ConsignmentResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     ToConsignmentItemResponses(c.Items),
		CreatedAt: c.CreatedAt,
	}
}
