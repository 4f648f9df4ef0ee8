package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func orderItemsByCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at")
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByCreation).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound("order", "find order", err)
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row. Items are loaded by a separate
// unlocked query.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound("order", "lock order", err)
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("created_at").
		Find(&order.Items).Error; err != nil {
		return nil, translateError("load order items", err)
	}
	return &order, nil
}

func (r *GormOrderRepository) Find(ctx context.Context, q trade.OrderQuery) ([]trade.Order, error) {
	query := r.db.WithContext(ctx).Model(&trade.Order{}).Preload("Items", orderItemsByCreation)
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	if q.StaffID != nil {
		query = query.Where("staff_id = ?", *q.StaffID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}

	var orders []trade.Order
	if err := paginate(query, q.Filter, OrderSortFields).Find(&orders).Error; err != nil {
		return nil, translateError("list orders", err)
	}
	return orders, nil
}

// Create inserts the order and then its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return translateError("create order", err)
	}
	if len(order.Items) == 0 {
		return nil
	}
	return translateError("create order items", db.Create(&order.Items).Error)
}

func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).
		Model(&trade.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]any{
			"status":       order.Status,
			"staff_id":     order.StaffID,
			"is_delivered": order.IsDelivered,
			"version":      order.Version,
			"updated_at":   order.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update order", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
