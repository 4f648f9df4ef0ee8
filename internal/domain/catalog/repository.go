package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByIDForUpdate loads the category and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Category, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// ExistsByName checks name uniqueness, optionally excluding one category
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// SaveWithLock updates a category only if its stored version is the
	// one it was loaded with
	SaveWithLock(ctx context.Context, category *Category) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductItemRepository defines the interface for product item persistence
type ProductItemRepository interface {
	// FindByID returns the item even when it is soft-deleted
	FindByID(ctx context.Context, id uuid.UUID) (*ProductItem, error)

	// FindByIDForUpdate loads the item and locks its row
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ProductItem, error)

	// FindByIDs returns the items with the given IDs, soft-deleted ones included
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductItem, error)

	// FindAvailable lists items that are not soft-deleted
	FindAvailable(ctx context.Context, filter shared.Filter) ([]ProductItem, error)

	// FindByItemType lists available items of one type
	FindByItemType(ctx context.Context, itemType ProductItemType) ([]ProductItem, error)

	Save(ctx context.Context, item *ProductItem) error
	SaveWithLock(ctx context.Context, item *ProductItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CertificateRepository reads certificates attached to product items
type CertificateRepository interface {
	// FindImageURLsByProductItems returns certificate image URLs keyed by product item
	FindImageURLsByProductItems(ctx context.Context, productItemIDs []uuid.UUID) (map[uuid.UUID][]string, error)
}
