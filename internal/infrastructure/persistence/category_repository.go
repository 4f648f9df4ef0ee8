package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound("category", "find category", err)
	}
	return &category, nil
}

// FindByIDForUpdate finds a category and locks its row
func (r *GormCategoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound("category", "lock category", err)
	}
	return &category, nil
}

// FindAll lists categories
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	var categories []catalog.Category
	query := paginate(r.db.WithContext(ctx).Model(&catalog.Category{}), filter, CategorySortFields)
	if err := query.Find(&categories).Error; err != nil {
		return nil, translateError("list categories", err)
	}
	return categories, nil
}

// ExistsByName checks whether another category already uses name
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Category{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateError("check category name", err)
	}
	return count > 0, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return translateError("save category", r.db.WithContext(ctx).Save(category).Error)
}

// SaveWithLock updates a category if nobody changed it since it was loaded
func (r *GormCategoryRepository) SaveWithLock(ctx context.Context, category *catalog.Category) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("id = ? AND version = ?", category.ID, category.Version-1).
		Updates(map[string]any{
			"name":        category.Name,
			"description": category.Description,
			"image_url":   category.ImageURL,
			"quantity":    category.Quantity,
			"version":     category.Version,
			"updated_at":  category.UpdatedAt,
		})
	if result.Error != nil {
		return translateError("update category", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Category{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete category", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("category")
	}
	return nil
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
