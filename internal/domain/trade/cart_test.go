package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItem(t *testing.T) {
	userID := uuid.New()
	cart := NewCart(userID)
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.BelongsTo(userID))

	productID := uuid.New()
	_, err := cart.AddItem(productID, 1)
	require.NoError(t, err)
	line, err := cart.AddItem(productID, 2)
	require.NoError(t, err)

	assert.Len(t, cart.Items, 1, "same product merges into one line")
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, cart.ID, line.CartID)

	_, err = cart.AddItem(uuid.New(), 0)
	assert.Error(t, err)
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart(uuid.New())
	a, b := uuid.New(), uuid.New()
	_, _ = cart.AddItem(a, 1)
	_, _ = cart.AddItem(b, 1)

	require.NoError(t, cart.RemoveItem(a))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b, cart.Items[0].ProductItemID)
	assert.Error(t, cart.RemoveItem(a))
}

func TestPromotion(t *testing.T) {
	total := decimal.NewFromInt(250)

	tests := []struct {
		name      string
		promoType PromotionType
		amount    int64
		valid     bool
		want      int64
	}{
		{"percentage 10", PromotionTypePercentage, 10, true, 225},
		{"percentage 100", PromotionTypePercentage, 100, true, 0},
		{"percentage 0 is invalid", PromotionTypePercentage, 0, false, 250},
		{"percentage over 100 is invalid", PromotionTypePercentage, 101, false, 250},
		{"direct 50", PromotionTypeDirect, 50, true, 200},
		{"direct above total floors at zero", PromotionTypeDirect, 1000, true, 0},
		{"direct negative is invalid", PromotionTypeDirect, -5, false, 250},
		{"unknown type is invalid", "Bogus", 10, false, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Promotion{Code: "X", Type: tt.promoType, Amount: decimal.NewFromInt(tt.amount)}
			assert.Equal(t, tt.valid, p.IsValid())
			assert.True(t, decimal.NewFromInt(tt.want).Equal(p.Apply(total)), p.Apply(total).String())
		})
	}

	p := &Promotion{Code: "KOI10"}
	assert.True(t, p.Matches("KOI10"))
	assert.False(t, p.Matches("koi10"))
	assert.False(t, p.Matches(""))
}
