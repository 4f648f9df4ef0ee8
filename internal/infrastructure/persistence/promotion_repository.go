package persistence

import (
	"context"

	"github.com/koifarm/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormPromotionRepository implements PromotionRepository using GORM
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

func (r *GormPromotionRepository) FindByCode(ctx context.Context, code string) (*trade.Promotion, error) {
	var promo trade.Promotion
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&promo).Error; err != nil {
		return nil, notFound("promotion", "find promotion", err)
	}
	return &promo, nil
}

func (r *GormPromotionRepository) FindAll(ctx context.Context) ([]trade.Promotion, error) {
	var promos []trade.Promotion
	if err := r.db.WithContext(ctx).Order("code").Find(&promos).Error; err != nil {
		return nil, translateError("list promotions", err)
	}
	return promos, nil
}

var _ trade.PromotionRepository = (*GormPromotionRepository)(nil)
