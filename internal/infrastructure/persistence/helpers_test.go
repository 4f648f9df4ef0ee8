package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/consignment"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// allModels lists every table the repositories touch
var allModels = []any{
	&catalog.Category{},
	&catalog.ProductItem{},
	&catalog.Certificate{},
	&catalog.ProductCertificate{},
	&identity.User{},
	&consignment.Consignment{},
	&consignment.ConsignmentItem{},
	&trade.Promotion{},
	&trade.Cart{},
	&trade.CartItem{},
	&trade.Order{},
	&trade.OrderItem{},
}

// newSQLiteDB opens a private in-memory database with the full schema.
// A single connection keeps every query on the same in-memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(allModels...))
	return db
}

// newMockDB returns a postgres-dialect gorm DB backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, "", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedProductItem(t *testing.T, db *gorm.DB, categoryID uuid.UUID, price int64) *catalog.ProductItem {
	t.Helper()
	p := decimal.NewFromInt(price)
	item, err := catalog.NewConsignedProductItem(categoryID, catalog.Attributes{Name: "Kohaku"}, catalog.ComputePricing(&p))
	require.NoError(t, err)
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *identity.User {
	t.Helper()
	u, err := identity.NewUser("Koi Keeper", email, "hash", role)
	require.NoError(t, err)
	require.NoError(t, db.Create(u).Error)
	return u
}
