// Package testutil holds testify mocks of the repository ports and shared
// helpers for service and handler tests.
package testutil

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/koifarm/backend/internal/application/shared"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/consignment"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// ==================== Catalog ====================

// MockCategoryRepository mocks catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) SaveWithLock(ctx context.Context, category *catalog.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockProductItemRepository mocks catalog.ProductItemRepository
type MockProductItemRepository struct {
	mock.Mock
}

func (m *MockProductItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductItem), args.Error(1)
}

func (m *MockProductItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.ProductItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductItem), args.Error(1)
}

func (m *MockProductItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductItem), args.Error(1)
}

func (m *MockProductItemRepository) FindAvailable(ctx context.Context, filter shared.Filter) ([]catalog.ProductItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductItem), args.Error(1)
}

func (m *MockProductItemRepository) FindByItemType(ctx context.Context, itemType catalog.ProductItemType) ([]catalog.ProductItem, error) {
	args := m.Called(ctx, itemType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductItem), args.Error(1)
}

func (m *MockProductItemRepository) Save(ctx context.Context, item *catalog.ProductItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockProductItemRepository) SaveWithLock(ctx context.Context, item *catalog.ProductItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockProductItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCertificateRepository mocks catalog.CertificateRepository
type MockCertificateRepository struct {
	mock.Mock
}

func (m *MockCertificateRepository) FindImageURLsByProductItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]string), args.Error(1)
}

// ==================== Identity ====================

// MockUserRepository mocks identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, roleID string) ([]identity.User, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// ==================== Consignment ====================

// MockConsignmentRepository mocks consignment.ConsignmentRepository
type MockConsignmentRepository struct {
	mock.Mock
}

func (m *MockConsignmentRepository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*consignment.Consignment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Consignment), args.Error(1)
}

func (m *MockConsignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*consignment.Consignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Consignment), args.Error(1)
}

func (m *MockConsignmentRepository) FindAllWithItems(ctx context.Context) ([]consignment.Consignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.Consignment), args.Error(1)
}

// MockConsignmentItemRepository mocks consignment.ItemRepository
type MockConsignmentItemRepository struct {
	mock.Mock
}

func (m *MockConsignmentItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*consignment.ConsignmentItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.ConsignmentItem), args.Error(1)
}

func (m *MockConsignmentItemRepository) FindByProductItemID(ctx context.Context, productItemID uuid.UUID) (*consignment.ConsignmentItem, error) {
	args := m.Called(ctx, productItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.ConsignmentItem), args.Error(1)
}

func (m *MockConsignmentItemRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]consignment.ConsignmentItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.ConsignmentItem), args.Error(1)
}

func (m *MockConsignmentItemRepository) FindByItemType(ctx context.Context, itemType catalog.ProductItemType) ([]consignment.ConsignmentItem, error) {
	args := m.Called(ctx, itemType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]consignment.ConsignmentItem), args.Error(1)
}

func (m *MockConsignmentItemRepository) Create(ctx context.Context, item *consignment.ConsignmentItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockConsignmentItemRepository) SaveWithLock(ctx context.Context, item *consignment.ConsignmentItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockConsignmentItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// ==================== Trade ====================

// MockOrderRepository mocks trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Find(ctx context.Context, query trade.OrderQuery) ([]trade.Order, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

// MockCartRepository mocks trade.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*trade.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, cart *trade.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPromotionRepository mocks trade.PromotionRepository
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) FindByCode(ctx context.Context, code string) (*trade.Promotion, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) FindAll(ctx context.Context) ([]trade.Promotion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Promotion), args.Error(1)
}

// ==================== Ports ====================

// MockNotifier mocks notification.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, title, htmlBody string) error {
	return m.Called(ctx, to, title, htmlBody).Error(0)
}

// Mocks bundles one mock per repository, ready to be used as a
// TransactionScope that runs without a transaction
type Mocks struct {
	Categories       *MockCategoryRepository
	ProductItems     *MockProductItemRepository
	Certificates     *MockCertificateRepository
	Users            *MockUserRepository
	Consignments     *MockConsignmentRepository
	ConsignmentItems *MockConsignmentItemRepository
	Orders           *MockOrderRepository
	Carts            *MockCartRepository
	Promotions       *MockPromotionRepository
	Notifier         *MockNotifier
	Events           *RecordingPublisher
}

// NewMocks creates a fresh set of mocks
func NewMocks() *Mocks {
	return &Mocks{
		Categories:       new(MockCategoryRepository),
		ProductItems:     new(MockProductItemRepository),
		Certificates:     new(MockCertificateRepository),
		Users:            new(MockUserRepository),
		Consignments:     new(MockConsignmentRepository),
		ConsignmentItems: new(MockConsignmentItemRepository),
		Orders:           new(MockOrderRepository),
		Carts:            new(MockCartRepository),
		Promotions:       new(MockPromotionRepository),
		Notifier:         new(MockNotifier),
		Events:           &RecordingPublisher{},
	}
}

// Scope returns the mocks as a pass-through transaction scope
func (m *Mocks) Scope() *appshared.Repositories {
	return &appshared.Repositories{
		CategoryRepo:        m.Categories,
		ProductItemRepo:     m.ProductItems,
		UserRepo:            m.Users,
		ConsignmentRepo:     m.Consignments,
		ConsignmentItemRepo: m.ConsignmentItems,
		OrderRepo:           m.Orders,
		CartRepo:            m.Carts,
		PromotionRepo:       m.Promotions,
	}
}

// AssertExpectations checks every repository mock
func (m *Mocks) AssertExpectations(t mock.TestingT) {
	mock.AssertExpectationsForObjects(t,
		m.Categories, m.ProductItems, m.Certificates, m.Users,
		m.Consignments, m.ConsignmentItems, m.Orders, m.Carts,
		m.Promotions, m.Notifier,
	)
}
