package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/shared"
)

// ProductItemService reads the storefront
type ProductItemService struct {
	productRepo     catalog.ProductItemRepository
	certificateRepo catalog.CertificateRepository
}

// NewProductItemService creates a new ProductItemService
func NewProductItemService(productRepo catalog.ProductItemRepository, certificateRepo catalog.CertificateRepository) *ProductItemService {
	return &ProductItemService{
		productRepo:     productRepo,
		certificateRepo: certificateRepo,
	}
}

// GetByID returns a product item with its certificate images. Sold-out
// items are still returned, flagged unavailable.
func (s *ProductItemService) GetByID(ctx context.Context, id uuid.UUID) (*ProductItemResponse, error) {
	item, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	certs, err := s.certificateRepo.FindImageURLsByProductItems(ctx, []uuid.UUID{item.ID})
	if err != nil {
		return nil, err
	}

	response := ToProductItemResponse(item)
	response.CertificateURLs = certs[item.ID]
	return &response, nil
}

// List pages through the items still in stock
func (s *ProductItemService) List(ctx context.Context, filter ProductItemListFilter) ([]ProductItemResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	items, err := s.productRepo.FindAvailable(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToProductItemResponses(items), nil
}

// ListByItemType lists in-stock items of one type
func (s *ProductItemService) ListByItemType(ctx context.Context, itemType string) ([]ProductItemResponse, error) {
	t := catalog.ProductItemType(itemType)
	if !t.IsValid() {
		return nil, shared.NewValidationError("invalid product item type: %s", itemType)
	}
	items, err := s.productRepo.FindByItemType(ctx, t)
	if err != nil {
		return nil, err
	}
	return ToProductItemResponses(items), nil
}
