package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Pricing ====================

func TestComputePricing(t *testing.T) {
	dec := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	tests := []struct {
		name      string
		salePrice *decimal.Decimal
		wantType  ProductItemType
		wantPrice string
		wantFee   string
	}{
		{"positive sale price lists for sale", dec("100000"), ProductItemTypeShopUser, "115000", "15000"},
		{"fractional sale price", dec("10.50"), ProductItemTypeShopUser, "12.075", "1.575"},
		{"nil sale price is healthcare", nil, ProductItemTypeHealthcare, "0", "25000"},
		{"zero sale price is healthcare", dec("0"), ProductItemTypeHealthcare, "0", "25000"},
		{"negative sale price is healthcare", dec("-5"), ProductItemTypeHealthcare, "0", "25000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComputePricing(tt.salePrice)
			assert.Equal(t, tt.wantType, p.Type)
			assert.True(t, decimal.RequireFromString(tt.wantPrice).Equal(p.Price), "price %s", p.Price)
			assert.True(t, decimal.RequireFromString(tt.wantFee).Equal(p.Fee), "fee %s", p.Fee)
		})
	}
}

func TestComputePricing_FeeIsMarkupDifference(t *testing.T) {
	for _, s := range []string{"1", "999.99", "123456789"} {
		sale := decimal.RequireFromString(s)
		p := ComputePricing(&sale)
		assert.True(t, p.Price.Sub(sale).Equal(p.Fee), "sale %s", s)
	}
}

// ==================== Category ====================

func TestNewCategory(t *testing.T) {
	t.Run("creates category with zero stock", func(t *testing.T) {
		c, err := NewCategory("  Kohaku ", "red and white", "")
		require.NoError(t, err)
		assert.Equal(t, "Kohaku", c.Name)
		assert.Equal(t, 0, c.Quantity)
		assert.Equal(t, 1, c.Version)
		assert.NotEqual(t, uuid.Nil, c.ID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCategory(" ", "", "")
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("rejects long name", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("a", 101), "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100 characters")
	})
}

func TestCategory_Stock(t *testing.T) {
	c, err := NewCategory("Showa", "", "")
	require.NoError(t, err)

	require.NoError(t, c.IncreaseStock(3))
	assert.Equal(t, 3, c.Quantity)
	assert.Equal(t, 2, c.Version)

	require.NoError(t, c.DecreaseStock(2))
	assert.Equal(t, 1, c.Quantity)

	err = c.DecreaseStock(2)
	require.Error(t, err)
	assert.Equal(t, 1, c.Quantity)

	assert.Error(t, c.IncreaseStock(0))
}

// ==================== ProductItem ====================

func createTestItem(t *testing.T, salePrice string) *ProductItem {
	t.Helper()
	sale := decimal.RequireFromString(salePrice)
	item, err := NewConsignedProductItem(uuid.New(), Attributes{Name: "Tancho", Age: 2}, ComputePricing(&sale))
	require.NoError(t, err)
	return item
}

func TestNewConsignedProductItem(t *testing.T) {
	item := createTestItem(t, "200")

	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, ProductItemTypeTagApproved, item.Type)
	assert.Equal(t, ProductItemTypeShopUser, item.ItemType)
	assert.True(t, decimal.NewFromInt(230).Equal(item.Price))
	assert.True(t, item.IsShopUser())
	assert.False(t, item.IsDeleted())

	_, err := NewConsignedProductItem(uuid.New(), Attributes{Name: ""}, ComputePricing(nil))
	assert.Error(t, err)

	_, err = NewConsignedProductItem(uuid.Nil, Attributes{Name: "x"}, ComputePricing(nil))
	assert.Error(t, err)
}

func TestProductItem_DecreaseStock(t *testing.T) {
	t.Run("soft-deletes at zero", func(t *testing.T) {
		item := createTestItem(t, "100")
		require.NoError(t, item.DecreaseStock(1))
		assert.Equal(t, 0, item.Quantity)
		assert.True(t, item.IsDeleted())
		assert.Equal(t, 2, item.Version)
	})

	t.Run("rejects more than stock", func(t *testing.T) {
		item := createTestItem(t, "100")
		err := item.DecreaseStock(2)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		assert.Equal(t, 1, item.Quantity)
		assert.Equal(t, 1, item.Version)
	})

	t.Run("restore revives deleted item", func(t *testing.T) {
		item := createTestItem(t, "100")
		require.NoError(t, item.DecreaseStock(1))
		require.NoError(t, item.RestoreStock(1))
		assert.Equal(t, 1, item.Quantity)
		assert.False(t, item.IsDeleted())
	})
}

func TestProductItem_ApplyPatch(t *testing.T) {
	item := createTestItem(t, "100")
	name := "Kin Showa"
	price := decimal.NewFromInt(500)
	qty := 4

	require.NoError(t, item.ApplyPatch(Patch{Name: &name, Price: &price, Quantity: &qty}))
	assert.Equal(t, "Kin Showa", item.Name)
	assert.True(t, price.Equal(item.Price))
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, ProductItemTypeTagApproved, item.Type, "untouched fields stay")

	neg := -1
	err := item.ApplyPatch(Patch{Quantity: &neg})
	require.Error(t, err)
	assert.Equal(t, 4, item.Quantity)

	version := item.Version
	require.NoError(t, item.ApplyPatch(Patch{}))
	assert.Equal(t, version, item.Version, "empty patch is a no-op")
}

func TestProductItem_ApplyPatchKeepsStockRules(t *testing.T) {
	item := createTestItem(t, "100")
	require.NoError(t, item.DecreaseStock(item.Quantity))
	require.True(t, item.IsDeleted())

	five := 5
	require.NoError(t, item.ApplyPatch(Patch{Quantity: &five}))
	assert.Equal(t, 5, item.Quantity)
	assert.False(t, item.IsDeleted(), "restocked item is listed again")

	zero := 0
	require.NoError(t, item.ApplyPatch(Patch{Quantity: &zero}))
	assert.True(t, item.IsDeleted(), "emptied item is withdrawn")
	deletedAt := *item.DeletedAt

	require.NoError(t, item.ApplyPatch(Patch{Quantity: &zero}))
	assert.Equal(t, deletedAt, *item.DeletedAt)
}
