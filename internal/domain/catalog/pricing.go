package catalog

import "github.com/shopspring/decimal"

// ProductItemType separates items listed for sale from boarded healthcare items
type ProductItemType string

const (
	ProductItemTypeShopUser   ProductItemType = "ShopUser"
	ProductItemTypeHealthcare ProductItemType = "Healthcare"
)

// IsValid checks if the product item type is valid
func (t ProductItemType) IsValid() bool {
	return t == ProductItemTypeShopUser || t == ProductItemTypeHealthcare
}

// String returns the string representation
func (t ProductItemType) String() string {
	return string(t)
}

// Pricing constants for consigned items
var (
	// ShopMarkup is applied to the seller's sale price to get the listed price
	ShopMarkup = decimal.RequireFromString("1.15")
	// CommissionRate is the share of the sale price kept as the consignment fee
	CommissionRate = decimal.RequireFromString("0.15")
	// HealthcareFee is the flat daily fee for healthcare items
	HealthcareFee = decimal.NewFromInt(25000)
)

// Pricing is the outcome of pricing a consigned item
type Pricing struct {
	Type  ProductItemType
	Price decimal.Decimal
	Fee   decimal.Decimal
}

// ComputePricing prices a consigned item from the seller's sale price.
// A positive sale price lists the item for sale with the markup and fee;
// anything else (absent, zero or negative) makes it a healthcare item.
func ComputePricing(salePrice *decimal.Decimal) Pricing {
	if salePrice != nil && salePrice.IsPositive() {
		return Pricing{
			Type:  ProductItemTypeShopUser,
			Price: salePrice.Mul(ShopMarkup),
			Fee:   salePrice.Mul(CommissionRate),
		}
	}
	return Pricing{
		Type:  ProductItemTypeHealthcare,
		Price: decimal.Zero,
		Fee:   HealthcareFee,
	}
}
