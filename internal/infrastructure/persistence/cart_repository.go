package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Cart, error) {
	var cart trade.Cart
	if err := r.db.WithContext(ctx).Preload("Items").First(&cart, "id = ?", id).Error; err != nil {
		return nil, notFound("cart", "find cart", err)
	}
	return &cart, nil
}

func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*trade.Cart, error) {
	var cart trade.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&cart).Error; err != nil {
		return nil, notFound("cart", "find cart", err)
	}
	return &cart, nil
}

// Save upserts the cart row and replaces its item rows
func (r *GormCartRepository) Save(ctx context.Context, cart *trade.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
			}).
			Create(cart).Error; err != nil {
			return translateError("save cart", err)
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&trade.CartItem{}).Error; err != nil {
			return translateError("replace cart items", err)
		}
		if len(cart.Items) == 0 {
			return nil
		}
		return translateError("save cart items", tx.Create(&cart.Items).Error)
	})
}

// Delete removes the cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&trade.CartItem{}).Error; err != nil {
			return translateError("delete cart items", err)
		}
		return translateError("delete cart", tx.Delete(&trade.Cart{}, "id = ?", id).Error)
	})
}

var _ trade.CartRepository = (*GormCartRepository)(nil)
