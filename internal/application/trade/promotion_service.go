package trade

import (
	"context"

	"github.com/koifarm/backend/internal/domain/trade"
)

// PromotionService reads discount codes
type PromotionService struct {
	promotionRepo trade.PromotionRepository
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(promotionRepo trade.PromotionRepository) *PromotionService {
	return &PromotionService{promotionRepo: promotionRepo}
}

// List returns every promotion
func (s *PromotionService) List(ctx context.Context) ([]PromotionResponse, error) {
	promos, err := s.promotionRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]PromotionResponse, len(promos))
	for i := range promos {
		responses[i] = ToPromotionResponse(&promos[i])
	}
	return responses, nil
}

// GetByCode returns the promotion answering to code
func (s *PromotionService) GetByCode(ctx context.Context, code string) (*PromotionResponse, error) {
	promo, err := s.promotionRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToPromotionResponse(promo)
	return &response, nil
}
