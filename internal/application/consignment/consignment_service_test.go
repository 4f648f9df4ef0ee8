package consignment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/application/notification"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/consignment"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/domain/trade"
	"github.com/koifarm/backend/internal/infrastructure/telemetry"
	"github.com/koifarm/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==================== Test Helpers ====================

func newTestService(t *testing.T) (*ConsignmentService, *testutil.Mocks) {
	t.Helper()
	m := testutil.NewMocks()
	engine, err := notification.NewTemplateEngine()
	require.NoError(t, err)
	dispatcher := notification.NewDispatcher(m.Notifier, engine, zap.NewNop())

	scope := m.Scope()
	svc := NewConsignmentService(scope, scope, dispatcher, zap.NewNop())
	svc.SetEventPublisher(m.Events)
	return svc, m
}

func testUser(t *testing.T, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser("Hoa", email, "", identity.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, u.SetContact("8 Tran Phu, Da Nang", "0900000000"))
	return u
}

func testCategory(t *testing.T, qty int) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory("Kohaku", "", "")
	require.NoError(t, err)
	c.Quantity = qty
	return c
}

func testProduct(t *testing.T, categoryID uuid.UUID, salePrice *decimal.Decimal) *catalog.ProductItem {
	t.Helper()
	p, err := catalog.NewConsignedProductItem(categoryID, catalog.Attributes{Name: "Showa Sanshoku"}, catalog.ComputePricing(salePrice))
	require.NoError(t, err)
	return p
}

func testItem(productID, consignmentID uuid.UUID, fee int64, status consignment.ItemStatus) *consignment.ConsignmentItem {
	return &consignment.ConsignmentItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              "Showa Sanshoku",
		Fee:               decimal.NewFromInt(fee),
		Status:            status,
		ConsignmentID:     consignmentID,
		ProductItemID:     productID,
	}
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// ==================== Intake ====================

func TestConsignmentService_Intake(t *testing.T) {
	t.Run("lists a koi for sale with markup and commission", func(t *testing.T) {
		svc, m := newTestService(t)
		ctx := context.Background()
		user := testUser(t, "hoa@koi.farm")
		category := testCategory(t, 4)

		m.Categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		m.Users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		m.Categories.On("FindByIDForUpdate", mock.Anything, category.ID).Return(category, nil)
		m.Categories.On("SaveWithLock", mock.Anything, category).Return(nil)
		m.ProductItems.On("Save", mock.Anything, mock.AnythingOfType("*catalog.ProductItem")).Return(nil)
		m.Consignments.On("GetOrCreateByUser", mock.Anything, user.ID).Return(consignment.NewConsignment(user.ID), nil)
		m.ConsignmentItems.On("Create", mock.Anything, mock.AnythingOfType("*consignment.ConsignmentItem")).Return(nil)
		metrics := testutil.NewMetrics(t)
		svc.SetBusinessMetrics(metrics.BusinessMetrics)

		resp, err := svc.Intake(ctx, user.ID, IntakeRequest{
			CategoryID: category.ID,
			Name:       "Kohaku",
			SalePrice:  price(1000),
		})

		require.NoError(t, err)
		assert.Equal(t, "ShopUser", resp.ProductItem.ItemType)
		assert.True(t, decimal.NewFromInt(1150).Equal(resp.ProductItem.Price), resp.ProductItem.Price.String())
		assert.Equal(t, 1, resp.ProductItem.Quantity)
		assert.True(t, decimal.NewFromInt(150).Equal(resp.Item.Fee), resp.Item.Fee.String())
		assert.Equal(t, "Pending", resp.Item.Status)
		assert.Equal(t, "Kohaku", resp.Item.Name)
		assert.Equal(t, resp.ProductItem.ID, resp.Item.ProductItemID)
		assert.Equal(t, 5, category.Quantity)
		assert.Equal(t, []string{consignment.EventTypeItemSubmitted}, m.Events.Types())
		assert.Equal(t, int64(1), metrics.Count("koi_consignment_intake_total", telemetry.AttrItemType.String("ShopUser")))
		m.AssertExpectations(t)
	})

	t.Run("without a sale price the koi is boarded for healthcare", func(t *testing.T) {
		svc, m := newTestService(t)
		user := testUser(t, "hoa@koi.farm")
		category := testCategory(t, 0)

		m.Categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		m.Users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		m.Categories.On("FindByIDForUpdate", mock.Anything, category.ID).Return(category, nil)
		m.Categories.On("SaveWithLock", mock.Anything, category).Return(nil)
		m.ProductItems.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.Consignments.On("GetOrCreateByUser", mock.Anything, user.ID).Return(consignment.NewConsignment(user.ID), nil)
		m.ConsignmentItems.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Intake(context.Background(), user.ID, IntakeRequest{CategoryID: category.ID, Name: "Asagi"})

		require.NoError(t, err)
		assert.Equal(t, "Healthcare", resp.ProductItem.ItemType)
		assert.True(t, resp.ProductItem.Price.IsZero())
		assert.True(t, decimal.NewFromInt(25000).Equal(resp.Item.Fee))
	})

	t.Run("repeat intake lands in the same consignment", func(t *testing.T) {
		svc, m := newTestService(t)
		user := testUser(t, "hoa@koi.farm")
		category := testCategory(t, 0)
		existing := consignment.NewConsignment(user.ID)

		m.Categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		m.Users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		m.Categories.On("FindByIDForUpdate", mock.Anything, category.ID).Return(category, nil)
		m.Categories.On("SaveWithLock", mock.Anything, category).Return(nil)
		m.ProductItems.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.Consignments.On("GetOrCreateByUser", mock.Anything, user.ID).Return(existing, nil)
		m.ConsignmentItems.On("Create", mock.Anything, mock.Anything).Return(nil)

		first, err := svc.Intake(context.Background(), user.ID, IntakeRequest{CategoryID: category.ID, Name: "Asagi"})
		require.NoError(t, err)
		second, err := svc.Intake(context.Background(), user.ID, IntakeRequest{CategoryID: category.ID, Name: "Bekko", SalePrice: price(500)})
		require.NoError(t, err)

		assert.Equal(t, existing.ID, first.Item.ConsignmentID)
		assert.Equal(t, existing.ID, second.Item.ConsignmentID)
		assert.Len(t, existing.Items, 2)
		assert.Equal(t, 2, category.Quantity)
	})

	t.Run("unknown category is not found", func(t *testing.T) {
		svc, m := newTestService(t)
		categoryID := uuid.New()
		m.Categories.On("FindByID", mock.Anything, categoryID).Return(nil, shared.NewNotFoundError("category"))

		_, err := svc.Intake(context.Background(), uuid.New(), IntakeRequest{CategoryID: categoryID, Name: "Asagi"})

		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
		m.ProductItems.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, m.Events.Types())
	})

	t.Run("unknown user is unauthorized", func(t *testing.T) {
		svc, m := newTestService(t)
		category := testCategory(t, 0)
		userID := uuid.New()
		m.Categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		m.Users.On("FindByID", mock.Anything, userID).Return(nil, shared.NewNotFoundError("user"))

		_, err := svc.Intake(context.Background(), userID, IntakeRequest{CategoryID: category.ID, Name: "Asagi"})

		assert.True(t, shared.IsCode(err, shared.CodeUnauthorized))
		m.Consignments.AssertNotCalled(t, "GetOrCreateByUser", mock.Anything, mock.Anything)
	})

	t.Run("storage failure publishes nothing", func(t *testing.T) {
		svc, m := newTestService(t)
		user := testUser(t, "hoa@koi.farm")
		category := testCategory(t, 0)

		m.Categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		m.Users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		m.Categories.On("FindByIDForUpdate", mock.Anything, category.ID).Return(category, nil)
		m.Categories.On("SaveWithLock", mock.Anything, category).Return(nil)
		m.ProductItems.On("Save", mock.Anything, mock.Anything).Return(nil)
		m.Consignments.On("GetOrCreateByUser", mock.Anything, user.ID).Return(nil, shared.NewPersistenceError("create consignment", errors.New("boom")))

		_, err := svc.Intake(context.Background(), user.ID, IntakeRequest{CategoryID: category.ID, Name: "Asagi"})

		assert.True(t, shared.IsCode(err, shared.CodePersistenceFailure))
		assert.Empty(t, m.Events.Types())
	})
}

// ==================== Update ====================

func TestConsignmentService_Update(t *testing.T) {
	t.Run("edits item and product together", func(t *testing.T) {
		svc, m := newTestService(t)
		category := testCategory(t, 1)
		product := testProduct(t, category.ID, price(1000))
		item := testItem(product.ID, uuid.New(), 150, consignment.ItemStatusPending)

		m.ConsignmentItems.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		m.ProductItems.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
		m.Categories.On("FindByIDForUpdate", mock.Anything, category.ID).Return(category, nil)
		m.Categories.On("SaveWithLock", mock.Anything, category).Return(nil)
		m.ProductItems.On("SaveWithLock", mock.Anything, product).Return(nil)
		m.ConsignmentItems.On("SaveWithLock", mock.Anything, item).Return(nil)

		name := "Tancho Kohaku"
		qty := 3
		resp, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{
			Name:     &name,
			Fee:      price(200),
			Quantity: &qty,
		})

		require.NoError(t, err)
		assert.Equal(t, name, resp.Name)
		assert.True(t, decimal.NewFromInt(200).Equal(resp.Fee))
		assert.Equal(t, name, product.Name)
		assert.Equal(t, 3, product.Quantity)
		assert.Equal(t, 3, category.Quantity, "category moves by the same delta")
		m.AssertExpectations(t)
	})

	t.Run("product-only patch leaves the item row alone", func(t *testing.T) {
		svc, m := newTestService(t)
		product := testProduct(t, uuid.New(), price(1000))
		item := testItem(product.ID, uuid.New(), 150, consignment.ItemStatusPending)

		m.ConsignmentItems.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		m.ProductItems.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
		m.ProductItems.On("SaveWithLock", mock.Anything, product).Return(nil)

		_, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{Price: price(2000)})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(2000).Equal(product.Price))
		m.ConsignmentItems.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("restocking a sold-out product lists it again", func(t *testing.T) {
		svc, m := newTestService(t)
		category := testCategory(t, 1)
		product := testProduct(t, category.ID, price(1000))
		require.NoError(t, product.DecreaseStock(1))
		require.NoError(t, category.DecreaseStock(1))
		item := testItem(product.ID, uuid.New(), 150, consignment.ItemStatusPending)

		m.ConsignmentItems.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		m.ProductItems.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
		m.Categories.On("FindByIDForUpdate", mock.Anything, category.ID).Return(category, nil)
		m.Categories.On("SaveWithLock", mock.Anything, category).Return(nil)
		m.ProductItems.On("SaveWithLock", mock.Anything, product).Return(nil)

		qty := 5
		_, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{Quantity: &qty})

		require.NoError(t, err)
		assert.Equal(t, 5, product.Quantity)
		assert.False(t, product.IsDeleted())
		assert.Equal(t, 5, category.Quantity)
	})

	t.Run("non-pending item is a conflict and nothing changes", func(t *testing.T) {
		svc, m := newTestService(t)
		item := testItem(uuid.New(), uuid.New(), 150, consignment.ItemStatusApproved)
		m.ConsignmentItems.On("FindByID", mock.Anything, item.ID).Return(item, nil)

		name := "Renamed"
		_, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{Name: &name})

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeConflict))
		assert.Equal(t, "Showa Sanshoku", item.Name)
		m.ProductItems.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
		m.ConsignmentItems.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("missing item is not found", func(t *testing.T) {
		svc, m := newTestService(t)
		id := uuid.New()
		m.ConsignmentItems.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("consignment item"))

		_, err := svc.Update(context.Background(), id, UpdateItemRequest{})
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("lost version race is reported", func(t *testing.T) {
		svc, m := newTestService(t)
		product := testProduct(t, uuid.New(), price(1000))
		item := testItem(product.ID, uuid.New(), 150, consignment.ItemStatusPending)

		m.ConsignmentItems.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		m.ProductItems.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
		m.ConsignmentItems.On("SaveWithLock", mock.Anything, item).Return(shared.ErrConcurrencyConflict)

		_, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{Fee: price(10)})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

// ==================== Delete / Review ====================

func TestConsignmentService_Delete(t *testing.T) {
	svc, m := newTestService(t)
	found, missing := uuid.New(), uuid.New()
	m.ConsignmentItems.On("Delete", mock.Anything, found).Return(nil)
	m.ConsignmentItems.On("Delete", mock.Anything, missing).Return(shared.NewNotFoundError("consignment item"))

	assert.NoError(t, svc.Delete(context.Background(), found))
	assert.True(t, shared.IsCode(svc.Delete(context.Background(), missing), shared.CodeNotFound))
}

func TestConsignmentService_ReviewItem(t *testing.T) {
	t.Run("approves a pending item", func(t *testing.T) {
		svc, m := newTestService(t)
		item := testItem(uuid.New(), uuid.New(), 150, consignment.ItemStatusPending)
		m.ConsignmentItems.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		m.ConsignmentItems.On("SaveWithLock", mock.Anything, item).Return(nil)

		resp, err := svc.ReviewItem(context.Background(), item.ID, ReviewItemRequest{Status: "Approved"})
		require.NoError(t, err)
		assert.Equal(t, "Approved", resp.Status)
		assert.Equal(t, 2, resp.Version)
	})

	t.Run("terminal item cannot move", func(t *testing.T) {
		svc, m := newTestService(t)
		item := testItem(uuid.New(), uuid.New(), 150, consignment.ItemStatusRejected)
		m.ConsignmentItems.On("FindByID", mock.Anything, item.ID).Return(item, nil)

		_, err := svc.ReviewItem(context.Background(), item.ID, ReviewItemRequest{Status: "Approved"})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.ReviewItem(context.Background(), uuid.New(), ReviewItemRequest{Status: "Lost"})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

// ==================== CheckoutHealthcare ====================

func TestConsignmentService_CheckoutHealthcare(t *testing.T) {
	setup := func(t *testing.T) (*ConsignmentService, *testutil.Mocks, *identity.User, *catalog.ProductItem, *consignment.ConsignmentItem) {
		svc, m := newTestService(t)
		user := testUser(t, "owner@koi.farm")
		product := testProduct(t, uuid.New(), nil)
		item := testItem(product.ID, uuid.New(), 25000, consignment.ItemStatusPending)
		svc.now = func() time.Time { return item.CreatedAt.Add(25 * time.Hour) }

		m.ProductItems.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		m.ConsignmentItems.On("FindByProductItemID", mock.Anything, product.ID).Return(item, nil)
		m.Users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		m.ConsignmentItems.On("SaveWithLock", mock.Anything, item).Return(nil)
		return svc, m, user, product, item
	}

	t.Run("bills every started day", func(t *testing.T) {
		svc, m, user, product, item := setup(t)
		var created *trade.Order
		m.Orders.On("Create", mock.Anything, mock.AnythingOfType("*trade.Order")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*trade.Order) }).
			Return(nil)
		m.Notifier.On("Send", mock.Anything, "owner@koi.farm", notification.TitleHealthcareInvoice, mock.AnythingOfType("string")).Return(nil)
		metrics := testutil.NewMetrics(t)
		svc.SetBusinessMetrics(metrics.BusinessMetrics)

		resp, err := svc.CheckoutHealthcare(context.Background(), user.ID, product.ID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), metrics.Count("koi_order_placed_total", telemetry.AttrOrderKind.String(telemetry.OrderKindHealthcare)))
		assert.Equal(t, 2, resp.Days)
		assert.True(t, decimal.NewFromInt(50000).Equal(resp.Total), resp.Total.String())
		assert.Equal(t, "Pending", resp.Status)

		require.NotNil(t, created)
		assert.Equal(t, user.ID, created.UserID)
		assert.Equal(t, user.Address, created.Address)
		require.Len(t, created.Items, 1)
		assert.Equal(t, 1, created.Items[0].Quantity)
		assert.Equal(t, product.ID, *created.Items[0].ProductItemID)
		assert.Equal(t, item.ID, *created.Items[0].ConsignmentItemID)
		assert.Equal(t, trade.LineKindHealthcare, created.Items[0].Kind)
		assert.Equal(t, consignment.ItemStatusCheckedOut, item.Status)
		assert.Equal(t, []string{trade.EventTypeOrderPlaced}, m.Events.Types())
		m.AssertExpectations(t)
	})

	t.Run("second checkout is rejected", func(t *testing.T) {
		svc, m, user, product, item := setup(t)
		m.Orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.Notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := svc.CheckoutHealthcare(context.Background(), user.ID, product.ID)
		require.NoError(t, err)

		_, err = svc.CheckoutHealthcare(context.Background(), user.ID, product.ID)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		assert.Equal(t, consignment.ItemStatusCheckedOut, item.Status)
		m.Orders.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("failed invoice keeps the order", func(t *testing.T) {
		svc, m, user, product, _ := setup(t)
		m.Orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.Notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		resp, err := svc.CheckoutHealthcare(context.Background(), user.ID, product.ID)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNotificationFailure))
		require.NotNil(t, resp)
		assert.NotEqual(t, uuid.Nil, resp.OrderID)
		m.Orders.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("checkout in the first hour bills one day", func(t *testing.T) {
		svc, m, user, product, item := setup(t)
		svc.now = func() time.Time { return item.CreatedAt }
		m.Orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.Notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.CheckoutHealthcare(context.Background(), user.ID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Days)
		assert.True(t, decimal.NewFromInt(25000).Equal(resp.Total))
	})
}

func TestConsignmentService_CheckoutHealthcare_Rejections(t *testing.T) {
	t.Run("shop item", func(t *testing.T) {
		svc, m := newTestService(t)
		product := testProduct(t, uuid.New(), price(1000))
		m.ProductItems.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := svc.CheckoutHealthcare(context.Background(), uuid.New(), product.ID)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("no consignment item", func(t *testing.T) {
		svc, m := newTestService(t)
		product := testProduct(t, uuid.New(), nil)
		m.ProductItems.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		m.ConsignmentItems.On("FindByProductItemID", mock.Anything, product.ID).Return(nil, shared.NewNotFoundError("consignment item"))

		_, err := svc.CheckoutHealthcare(context.Background(), uuid.New(), product.ID)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("zero fee", func(t *testing.T) {
		svc, m := newTestService(t)
		product := testProduct(t, uuid.New(), nil)
		m.ProductItems.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		m.ConsignmentItems.On("FindByProductItemID", mock.Anything, product.ID).
			Return(testItem(product.ID, uuid.New(), 0, consignment.ItemStatusPending), nil)

		_, err := svc.CheckoutHealthcare(context.Background(), uuid.New(), product.ID)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		m.Orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("sold item", func(t *testing.T) {
		svc, m := newTestService(t)
		product := testProduct(t, uuid.New(), nil)
		m.ProductItems.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		m.ConsignmentItems.On("FindByProductItemID", mock.Anything, product.ID).
			Return(testItem(product.ID, uuid.New(), 25000, consignment.ItemStatusSold), nil)

		_, err := svc.CheckoutHealthcare(context.Background(), uuid.New(), product.ID)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		m.ConsignmentItems.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("missing product", func(t *testing.T) {
		svc, m := newTestService(t)
		id := uuid.New()
		m.ProductItems.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("product item"))

		_, err := svc.CheckoutHealthcare(context.Background(), uuid.New(), id)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})
}

// ==================== NotifySeller ====================

func TestConsignmentService_NotifySeller(t *testing.T) {
	t.Run("emails the seller of a sold item", func(t *testing.T) {
		svc, m := newTestService(t)
		seller := testUser(t, "seller@koi.farm")
		c := consignment.NewConsignment(seller.ID)
		product := testProduct(t, uuid.New(), price(1000))
		item := testItem(product.ID, c.ID, 150, consignment.ItemStatusSold)

		m.ProductItems.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		m.ConsignmentItems.On("FindByProductItemID", mock.Anything, product.ID).Return(item, nil)
		m.Consignments.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		m.Users.On("FindByID", mock.Anything, seller.ID).Return(seller, nil)
		m.Notifier.On("Send", mock.Anything, "seller@koi.farm", notification.TitleItemSold, mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "Showa Sanshoku")
		})).Return(nil)

		email, err := svc.NotifySeller(context.Background(), product.ID)
		require.NoError(t, err)
		assert.Equal(t, "seller@koi.farm", email)
		m.AssertExpectations(t)
	})

	t.Run("healthcare item is rejected", func(t *testing.T) {
		svc, m := newTestService(t)
		product := testProduct(t, uuid.New(), nil)
		m.ProductItems.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := svc.NotifySeller(context.Background(), product.ID)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		m.Notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("send failure still reports the address", func(t *testing.T) {
		svc, m := newTestService(t)
		seller := testUser(t, "seller@koi.farm")
		c := consignment.NewConsignment(seller.ID)
		product := testProduct(t, uuid.New(), price(1000))

		m.ProductItems.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		m.ConsignmentItems.On("FindByProductItemID", mock.Anything, product.ID).Return(testItem(product.ID, c.ID, 150, consignment.ItemStatusSold), nil)
		m.Consignments.On("FindByID", mock.Anything, c.ID).Return(c, nil)
		m.Users.On("FindByID", mock.Anything, seller.ID).Return(seller, nil)
		m.Notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("refused"))

		email, err := svc.NotifySeller(context.Background(), product.ID)
		assert.True(t, shared.IsCode(err, shared.CodeNotificationFailure))
		assert.Equal(t, "seller@koi.farm", email)
	})
}

// ==================== Listings ====================

func TestConsignmentService_Listings(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()
	c := consignment.NewConsignment(userID)
	c.Items = append(c.Items, *testItem(uuid.New(), c.ID, 150, consignment.ItemStatusPending))

	m.Consignments.On("FindAllWithItems", mock.Anything).Return([]consignment.Consignment{*c}, nil)
	m.ConsignmentItems.On("FindByUser", mock.Anything, userID).Return(c.Items, nil)
	m.ConsignmentItems.On("FindByItemType", mock.Anything, catalog.ProductItemTypeHealthcare).Return([]consignment.ConsignmentItem{}, nil)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Items, 1)

	mine, err := svc.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	boarded, err := svc.ListByItemType(context.Background(), "Healthcare")
	require.NoError(t, err)
	assert.Empty(t, boarded)

	_, err = svc.ListByItemType(context.Background(), "Pond")
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}
