package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/domain/trade"
)

// CartService manages the caller's cart
type CartService struct {
	cartRepo    trade.CartRepository
	productRepo catalog.ProductItemRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo trade.CartRepository, productRepo catalog.ProductItemRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetMine returns the user's cart, empty if none was started yet
func (s *CartService) GetMine(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if !shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
		cart = trade.NewCart(userID)
	}
	response := ToCartResponse(cart)
	return &response, nil
}

// AddItem adds an available product item to the user's cart, starting a
// cart on first use
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddCartItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductItemID)
	if err != nil {
		return nil, err
	}
	if product.IsDeleted() {
		return nil, shared.NewValidationError("product item %s is no longer available", product.ID)
	}
	if !product.IsShopUser() {
		return nil, shared.NewValidationError("product item %s is not for sale", product.ID)
	}

	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if !shared.IsCode(err, shared.CodeNotFound) {
			return nil, err
		}
		cart = trade.NewCart(userID)
	}
	line, err := cart.AddItem(product.ID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if line.Quantity > product.Quantity {
		return nil, shared.NewValidationError("only %d of %s in stock", product.Quantity, product.Name)
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// RemoveItem drops a product item from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productItemID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(productItemID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}
