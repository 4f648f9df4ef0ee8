package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/consignment"
	"github.com/koifarm/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConsignmentRepository implements ConsignmentRepository using GORM
type GormConsignmentRepository struct {
	db *gorm.DB
}

// NewGormConsignmentRepository creates a new GormConsignmentRepository
func NewGormConsignmentRepository(db *gorm.DB) *GormConsignmentRepository {
	return &GormConsignmentRepository{db: db}
}

// GetOrCreateByUser inserts an empty consignment unless one already exists
// for the user, then reads back whichever row won. The unique index on
// user_id makes concurrent intakes converge on a single consignment.
func (r *GormConsignmentRepository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*consignment.Consignment, error) {
	candidate := consignment.NewConsignment(userID)
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(candidate).Error; err != nil {
		return nil, translateError("create consignment", err)
	}

	var existing consignment.Consignment
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&existing).Error; err != nil {
		return nil, notFound("consignment", "find consignment", err)
	}
	return &existing, nil
}

func (r *GormConsignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*consignment.Consignment, error) {
	var c consignment.Consignment
	if err := r.db.WithContext(ctx).Preload("Items").First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound("consignment", "find consignment", err)
	}
	return &c, nil
}

func (r *GormConsignmentRepository) FindAllWithItems(ctx context.Context) ([]consignment.Consignment, error) {
	var list []consignment.Consignment
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, translateError("list consignments", err)
	}
	return list, nil
}

// GormConsignmentItemRepository implements consignment.ItemRepository using GORM
type GormConsignmentItemRepository struct {
	db *gorm.DB
}

// NewGormConsignmentItemRepository creates a new GormConsignmentItemRepository
func NewGormConsignmentItemRepository(db *gorm.DB) *GormConsignmentItemRepository {
	return &GormConsignmentItemRepository{db: db}
}

func (r *GormConsignmentItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*consignment.ConsignmentItem, error) {
	var item consignment.ConsignmentItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound("consignment item", "find consignment item", err)
	}
	return &item, nil
}

func (r *GormConsignmentItemRepository) FindByProductItemID(ctx context.Context, productItemID uuid.UUID) (*consignment.ConsignmentItem, error) {
	var item consignment.ConsignmentItem
	if err := r.db.WithContext(ctx).First(&item, "product_item_id = ?", productItemID).Error; err != nil {
		return nil, notFound("consignment item", "find consignment item", err)
	}
	return &item, nil
}

func (r *GormConsignmentItemRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]consignment.ConsignmentItem, error) {
	var items []consignment.ConsignmentItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN consignments ON consignments.id = consignment_items.consignment_id").
		Where("consignments.user_id = ?", userID).
		Order("consignment_items.created_at DESC").
		Find(&items).Error; err != nil {
		return nil, translateError("list consignment items", err)
	}
	return items, nil
}

func (r *GormConsignmentItemRepository) FindByItemType(ctx context.Context, itemType catalog.ProductItemType) ([]consignment.ConsignmentItem, error) {
	var items []consignment.ConsignmentItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN product_items ON product_items.id = consignment_items.product_item_id").
		Where("product_items.product_item_type = ?", itemType).
		Order("consignment_items.created_at DESC").
		Find(&items).Error; err != nil {
		return nil, translateError("list consignment items", err)
	}
	return items, nil
}

func (r *GormConsignmentItemRepository) Create(ctx context.Context, item *consignment.ConsignmentItem) error {
	return translateError("create consignment item", r.db.WithContext(ctx).Create(item).Error)
}

func (r *GormConsignmentItemRepository) SaveWithLock(ctx context.Context, item *consignment.ConsignmentItem) error {
	result := r.db.WithContext(ctx).
		Model(&consignment.ConsignmentItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]any{
			"name":       item.Name,
			"fee":        item.Fee,
			"status":     item.Status,
			"version":    item.Version,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update consignment item", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormConsignmentItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&consignment.ConsignmentItem{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete consignment item", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("consignment item")
	}
	return nil
}

var (
	_ consignment.ConsignmentRepository = (*GormConsignmentRepository)(nil)
	_ consignment.ItemRepository        = (*GormConsignmentItemRepository)(nil)
)
