package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductItemTypeTagApproved is the tag intake writes on every new item
const ProductItemTypeTagApproved = "Approved"

// ProductItem is a sellable koi or a boarded healthcare item.
// It is soft-deleted when its quantity reaches zero.
type ProductItem struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null"`
	Price          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity       int             `gorm:"not null;default:0"`
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemType       ProductItemType `gorm:"column:product_item_type;type:varchar(20);not null;index"`
	Type           string          `gorm:"type:varchar(50)"`
	ImageURL       string          `gorm:"type:varchar(500)"`
	Origin         string          `gorm:"type:varchar(100)"`
	Sex            string          `gorm:"type:varchar(20)"`
	Age            int             `gorm:"not null;default:0"`
	Size           string          `gorm:"type:varchar(50)"`
	Species        string          `gorm:"type:varchar(100)"`
	Personality    string          `gorm:"type:varchar(200)"`
	FoodAmount     string          `gorm:"type:varchar(100)"`
	WaterTemp      string          `gorm:"type:varchar(50)"`
	MineralContent string          `gorm:"type:varchar(100)"`
	PH             string          `gorm:"column:ph;type:varchar(20)"`
	DeletedAt      *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProductItem) TableName() string {
	return "product_items"
}

// Attributes are the descriptive fields a seller submits for a koi
type Attributes struct {
	Name           string
	Origin         string
	Sex            string
	Age            int
	Size           string
	Species        string
	Personality    string
	FoodAmount     string
	WaterTemp      string
	MineralContent string
	PH             string
	ImageURL       string
}

// NewConsignedProductItem creates the single-unit item backing a consignment
func NewConsignedProductItem(categoryID uuid.UUID, attrs Attributes, pricing Pricing) (*ProductItem, error) {
	name := strings.TrimSpace(attrs.Name)
	if name == "" {
		return nil, shared.NewValidationError("product item name cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewValidationError("category is required")
	}
	if attrs.Age < 0 {
		return nil, shared.NewValidationError("age cannot be negative")
	}
	return &ProductItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             pricing.Price,
		Quantity:          1,
		CategoryID:        categoryID,
		ItemType:          pricing.Type,
		Type:              ProductItemTypeTagApproved,
		ImageURL:          attrs.ImageURL,
		Origin:            attrs.Origin,
		Sex:               attrs.Sex,
		Age:               attrs.Age,
		Size:              attrs.Size,
		Species:           attrs.Species,
		Personality:       attrs.Personality,
		FoodAmount:        attrs.FoodAmount,
		WaterTemp:         attrs.WaterTemp,
		MineralContent:    attrs.MineralContent,
		PH:                attrs.PH,
	}, nil
}

// IsShopUser reports whether the item is listed for sale
func (p *ProductItem) IsShopUser() bool {
	return p.ItemType == ProductItemTypeShopUser
}

// IsHealthcare reports whether the item is a boarded healthcare item
func (p *ProductItem) IsHealthcare() bool {
	return p.ItemType == ProductItemTypeHealthcare
}

// IsDeleted reports whether the item was soft-deleted
func (p *ProductItem) IsDeleted() bool {
	return p.DeletedAt != nil
}

// DecreaseStock takes qty units out of stock and soft-deletes the item
// once nothing is left.
func (p *ProductItem) DecreaseStock(qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	if p.IsDeleted() || qty > p.Quantity {
		return shared.NewValidationError("not enough stock for product %s", p.Name)
	}
	p.Quantity -= qty
	now := time.Now()
	if p.Quantity == 0 {
		p.DeletedAt = &now
	}
	p.Touch()
	return nil
}

// RestoreStock puts qty units back and revives a soft-deleted item
func (p *ProductItem) RestoreStock(qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	p.Quantity += qty
	p.DeletedAt = nil
	p.Touch()
	return nil
}

// Patch holds optional replacements for a product item's editable fields
type Patch struct {
	Name     *string
	Price    *decimal.Decimal
	Quantity *int
	Type     *string
	ImageURL *string
}

// IsEmpty reports whether the patch changes nothing
func (pt Patch) IsEmpty() bool {
	return pt.Name == nil && pt.Price == nil && pt.Quantity == nil && pt.Type == nil && pt.ImageURL == nil
}

// ApplyPatch applies the non-nil fields of the patch. A quantity edit
// follows the stock rules: zero soft-deletes the item and anything above
// zero revives it.
func (p *ProductItem) ApplyPatch(pt Patch) error {
	if pt.IsEmpty() {
		return nil
	}
	if pt.Name != nil && strings.TrimSpace(*pt.Name) == "" {
		return shared.NewValidationError("product item name cannot be empty")
	}
	if pt.Price != nil && pt.Price.IsNegative() {
		return shared.NewValidationError("price cannot be negative")
	}
	if pt.Quantity != nil && *pt.Quantity < 0 {
		return shared.NewValidationError("quantity cannot be negative")
	}

	if pt.Name != nil {
		p.Name = strings.TrimSpace(*pt.Name)
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.Quantity != nil {
		p.setQuantity(*pt.Quantity)
	}
	if pt.Type != nil {
		p.Type = *pt.Type
	}
	if pt.ImageURL != nil {
		p.ImageURL = *pt.ImageURL
	}
	p.Touch()
	return nil
}

func (p *ProductItem) setQuantity(qty int) {
	p.Quantity = qty
	switch {
	case qty == 0 && p.DeletedAt == nil:
		now := time.Now()
		p.DeletedAt = &now
	case qty > 0:
		p.DeletedAt = nil
	}
}
