package consignment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(t *testing.T, salePrice *decimal.Decimal) (*catalog.ProductItem, catalog.Pricing) {
	t.Helper()
	pricing := catalog.ComputePricing(salePrice)
	p, err := catalog.NewConsignedProductItem(uuid.New(), catalog.Attributes{Name: "Asagi"}, pricing)
	require.NoError(t, err)
	return p, pricing
}

func submitted(t *testing.T) *ConsignmentItem {
	t.Helper()
	c := NewConsignment(uuid.New())
	p, pricing := newProduct(t, nil)
	item, err := c.Submit(p, pricing.Fee)
	require.NoError(t, err)
	return item
}

// ==================== Consignment ====================

func TestConsignment_Submit(t *testing.T) {
	sellerID := uuid.New()
	c := NewConsignment(sellerID)
	require.NotNil(t, c.Items)

	sale := decimal.NewFromInt(1000)
	p, pricing := newProduct(t, &sale)
	item, err := c.Submit(p, pricing.Fee)
	require.NoError(t, err)

	assert.Equal(t, ItemStatusPending, item.Status)
	assert.Equal(t, c.ID, item.ConsignmentID)
	assert.Equal(t, p.ID, item.ProductItemID)
	assert.Equal(t, "Asagi", item.Name)
	assert.True(t, decimal.NewFromInt(150).Equal(item.Fee))
	assert.Len(t, c.Items, 1)

	events := c.PendingEvents()
	require.Len(t, events, 1)
	ev, ok := events[0].(*ItemSubmittedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeItemSubmitted, ev.EventType())
	assert.Equal(t, sellerID, ev.SellerID)
	assert.Equal(t, catalog.ProductItemTypeShopUser, ev.ItemType)
}

func TestConsignment_SubmitOnNilItems(t *testing.T) {
	c := &Consignment{BaseAggregateRoot: shared.NewBaseAggregateRoot(), UserID: uuid.New()}
	p, pricing := newProduct(t, nil)

	_, err := c.Submit(p, pricing.Fee)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

// ==================== ConsignmentItem ====================

func TestConsignmentItem_Edit(t *testing.T) {
	t.Run("pending item accepts edits", func(t *testing.T) {
		item := submitted(t)
		name := "Asagi Sanke"
		fee := decimal.NewFromInt(30000)

		require.NoError(t, item.Edit(ItemPatch{Name: &name, Fee: &fee}))
		assert.Equal(t, "Asagi Sanke", item.Name)
		assert.True(t, fee.Equal(item.Fee))
		assert.Equal(t, 2, item.Version)
	})

	t.Run("approved item rejects edits with conflict", func(t *testing.T) {
		item := submitted(t)
		require.NoError(t, item.ChangeStatus(ItemStatusApproved))
		name := "changed"

		err := item.Edit(ItemPatch{Name: &name})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeConflict))
		assert.Equal(t, "Asagi", item.Name)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		item := submitted(t)
		blank := "  "
		assert.Error(t, item.Edit(ItemPatch{Name: &blank}))
	})
}

func TestConsignmentItem_ChangeStatus(t *testing.T) {
	tests := []struct {
		name    string
		path    []ItemStatus
		wantErr bool
	}{
		{"approve", []ItemStatus{ItemStatusApproved}, false},
		{"reject", []ItemStatus{ItemStatusRejected}, false},
		{"approve then sell", []ItemStatus{ItemStatusApproved, ItemStatusSold}, false},
		{"sell straight from pending", []ItemStatus{ItemStatusSold}, false},
		{"check out boarded item", []ItemStatus{ItemStatusCheckedOut}, false},
		{"check out after approval", []ItemStatus{ItemStatusApproved, ItemStatusCheckedOut}, false},
		{"relist after a cancelled sale", []ItemStatus{ItemStatusSold, ItemStatusApproved}, false},
		{"sold item cannot be checked out", []ItemStatus{ItemStatusSold, ItemStatusCheckedOut}, true},
		{"reopen rejected", []ItemStatus{ItemStatusRejected, ItemStatusPending}, true},
		{"unknown status", []ItemStatus{"Lost"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := submitted(t)
			var err error
			for _, s := range tt.path {
				if err = item.ChangeStatus(s); err != nil {
					break
				}
			}
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.path[len(tt.path)-1], item.Status)
			}
		})
	}
}

func TestConsignmentItem_MarkSoldAndRelist(t *testing.T) {
	item := submitted(t)
	require.True(t, item.MarkSold())
	assert.Equal(t, ItemStatusSold, item.Status)
	assert.False(t, item.CanEdit())
	assert.False(t, item.MarkSold(), "already sold")

	require.True(t, item.Relist())
	assert.Equal(t, ItemStatusApproved, item.Status)
	assert.False(t, item.Relist())

	rejected := submitted(t)
	require.NoError(t, rejected.ChangeStatus(ItemStatusRejected))
	assert.False(t, rejected.MarkSold())
	assert.Equal(t, ItemStatusRejected, rejected.Status)
}

func TestConsignmentItem_CheckOut(t *testing.T) {
	item := submitted(t)
	require.NoError(t, item.CheckOut())
	assert.Equal(t, ItemStatusCheckedOut, item.Status)

	err := item.CheckOut()
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	sold := submitted(t)
	require.True(t, sold.MarkSold())
	assert.Error(t, sold.CheckOut())
}

// ==================== Billing ====================

func TestBillHealthcare(t *testing.T) {
	fee := decimal.NewFromInt(25000)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		wantDays int
	}{
		{"25 hours is two days", 25 * time.Hour, 2},
		{"exactly one day", 24 * time.Hour, 1},
		{"one minute still bills a day", time.Minute, 1},
		{"same instant bills a day", 0, 1},
		{"three days and a bit", 72*time.Hour + time.Second, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := BillHealthcare(fee, start, start.Add(tt.elapsed))
			assert.Equal(t, tt.wantDays, bill.Days)
			assert.True(t, fee.Mul(decimal.NewFromInt(int64(tt.wantDays))).Equal(bill.Total))
		})
	}
}
