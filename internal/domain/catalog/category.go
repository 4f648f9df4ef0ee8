package catalog

import (
	"strings"

	"github.com/koifarm/backend/internal/domain/shared"
)

// MaxCategoryNameLength bounds category names
const MaxCategoryNameLength = 100

// Category groups product items and tracks their aggregate stock.
// Quantity moves in lock-step with the quantities of its product items.
type Category struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"type:varchar(500)"`
	Quantity    int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new empty category
func NewCategory(name, description, imageURL string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		ImageURL:          imageURL,
	}, nil
}

// Update updates the category's descriptive fields
func (c *Category) Update(name, description, imageURL string) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = name
	c.Description = description
	c.ImageURL = imageURL
	c.Touch()
	return nil
}

// IncreaseStock adds qty units to the category
func (c *Category) IncreaseStock(qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	c.Quantity += qty
	c.Touch()
	return nil
}

// DecreaseStock removes qty units from the category
func (c *Category) DecreaseStock(qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	if qty > c.Quantity {
		return shared.NewValidationError("not enough stock in category %s", c.Name)
	}
	c.Quantity -= qty
	c.Touch()
	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewValidationError("category name cannot be empty")
	}
	if len(name) > MaxCategoryNameLength {
		return shared.NewValidationError("category name cannot exceed %d characters", MaxCategoryNameLength)
	}
	return nil
}
