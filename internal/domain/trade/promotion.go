package trade

import (
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PromotionType represents how a promotion reduces an order total
type PromotionType string

const (
	PromotionTypePercentage PromotionType = "Percentage"
	PromotionTypeDirect     PromotionType = "Direct"
)

var hundred = decimal.NewFromInt(100)

// Promotion is a discount code
type Promotion struct {
	shared.BaseEntity
	Code   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type   PromotionType   `gorm:"type:varchar(20);not null"`
	Amount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (Promotion) TableName() string {
	return "promotions"
}

// IsValid reports whether the amount is within the bounds of its type:
// a percentage in (0, 100], or a positive direct amount.
func (p *Promotion) IsValid() bool {
	switch p.Type {
	case PromotionTypePercentage:
		return p.Amount.IsPositive() && p.Amount.LessThanOrEqual(hundred)
	case PromotionTypeDirect:
		return p.Amount.IsPositive()
	default:
		return false
	}
}

// Matches reports whether the promotion answers to code
func (p *Promotion) Matches(code string) bool {
	return code != "" && p.Code == code
}

// Apply returns the discounted total. Invalid promotions leave the total
// unchanged, and a direct discount never takes the total below zero.
func (p *Promotion) Apply(total decimal.Decimal) decimal.Decimal {
	if !p.IsValid() {
		return total
	}
	var discounted decimal.Decimal
	switch p.Type {
	case PromotionTypePercentage:
		discounted = total.Sub(total.Mul(p.Amount).Div(hundred))
	case PromotionTypeDirect:
		discounted = total.Sub(p.Amount)
	}
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}
