package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ==================== Category DTOs ====================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" binding:"max=500"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" binding:"max=500"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Quantity    int       `json:"quantity"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToCategoryResponse converts a domain category to a response
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Quantity:    c.Quantity,
		Version:     c.Version,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ==================== Product Item DTOs ====================

// ProductItemListFilter pages the product item listing
type ProductItemListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// ProductItemResponse represents a product item in API responses
type ProductItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	CategoryID      uuid.UUID       `json:"categoryId"`
	ItemType        string          `json:"productItemType"`
	Type            string          `json:"type"`
	ImageURL        string          `json:"imageUrl"`
	Origin          string          `json:"origin"`
	Sex             string          `json:"sex"`
	Age             int             `json:"age"`
	Size            string          `json:"size"`
	Species         string          `json:"species"`
	Personality     string          `json:"personality"`
	FoodAmount      string          `json:"foodAmount"`
	WaterTemp       string          `json:"waterTemp"`
	MineralContent  string          `json:"mineralContent"`
	PH              string          `json:"ph"`
	CertificateURLs []string        `json:"certificateUrls,omitempty"`
	Available       bool            `json:"available"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToProductItemResponse converts a domain product item to a response
func ToProductItemResponse(p *catalog.ProductItem) ProductItemResponse {
	return ProductItemResponse{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		Quantity:       p.Quantity,
		CategoryID:     p.CategoryID,
		ItemType:       p.ItemType.String(),
		Type:           p.Type,
		ImageURL:       p.ImageURL,
		Origin:         p.Origin,
		Sex:            p.Sex,
		Age:            p.Age,
		Size:           p.Size,
		Species:        p.Species,
		Personality:    p.Personality,
		FoodAmount:     p.FoodAmount,
		WaterTemp:      p.WaterTemp,
		MineralContent: p.MineralContent,
		PH:             p.PH,
		Available:      !p.IsDeleted(),
		CreatedAt:      p.CreatedAt,
	}
}

// ToProductItemResponses converts a slice of domain product items
func ToProductItemResponses(items []catalog.ProductItem) []ProductItemResponse {
	responses := make([]ProductItemResponse, len(items))
	for i := range items {
		responses[i] = ToProductItemResponse(&items[i])
	}
	return responses
}
