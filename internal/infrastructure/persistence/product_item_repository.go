package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductItemRepository implements ProductItemRepository using GORM.
// Soft-deleted rows have deleted_at set and are hidden from listings only.
type GormProductItemRepository struct {
	db *gorm.DB
}

// NewGormProductItemRepository creates a new GormProductItemRepository
func NewGormProductItemRepository(db *gorm.DB) *GormProductItemRepository {
	return &GormProductItemRepository{db: db}
}

func (r *GormProductItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductItem, error) {
	var item catalog.ProductItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound("product item", "find product item", err)
	}
	return &item, nil
}

func (r *GormProductItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.ProductItem, error) {
	var item catalog.ProductItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound("product item", "lock product item", err)
	}
	return &item, nil
}

func (r *GormProductItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductItem, error) {
	if len(ids) == 0 {
		return []catalog.ProductItem{}, nil
	}
	var items []catalog.ProductItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, translateError("find product items", err)
	}
	return items, nil
}

func (r *GormProductItemRepository) FindAvailable(ctx context.Context, filter shared.Filter) ([]catalog.ProductItem, error) {
	var items []catalog.ProductItem
	query := r.db.WithContext(ctx).Model(&catalog.ProductItem{}).Where("deleted_at IS NULL")
	if err := paginate(query, filter, ProductItemSortFields).Find(&items).Error; err != nil {
		return nil, translateError("list product items", err)
	}
	return items, nil
}

func (r *GormProductItemRepository) FindByItemType(ctx context.Context, itemType catalog.ProductItemType) ([]catalog.ProductItem, error) {
	var items []catalog.ProductItem
	if err := r.db.WithContext(ctx).
		Where("product_item_type = ? AND deleted_at IS NULL", itemType).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, translateError("list product items", err)
	}
	return items, nil
}

func (r *GormProductItemRepository) Save(ctx context.Context, item *catalog.ProductItem) error {
	return translateError("save product item", r.db.WithContext(ctx).Save(item).Error)
}

// SaveWithLock writes the mutable columns if the stored version still
// matches. Zero quantities and soft-delete markers are written explicitly.
func (r *GormProductItemRepository) SaveWithLock(ctx context.Context, item *catalog.ProductItem) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.ProductItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]any{
			"name":       item.Name,
			"price":      item.Price,
			"quantity":   item.Quantity,
			"type":       item.Type,
			"image_url":  item.ImageURL,
			"deleted_at": item.DeletedAt,
			"version":    item.Version,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update product item", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormProductItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductItem{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete product item", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("product item")
	}
	return nil
}

var _ catalog.ProductItemRepository = (*GormProductItemRepository)(nil)
