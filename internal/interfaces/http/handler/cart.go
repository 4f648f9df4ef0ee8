package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/koifarm/backend/internal/application/trade"
)

// CartHandler handles the caller's cart
type CartHandler struct {
	BaseHandler
	cartService *tradeapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *tradeapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	cart, err := h.cartService.GetMine(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	var req tradeapp.AddCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	respond(&h.BaseHandler, c, http.StatusOK, cart, err)
}

// RemoveItem handles DELETE /cart/items/:productItemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	productItemID, ok := h.pathUUID(c, "productItemId")
	if !ok {
		return
	}
	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, productItemID)
	respond(&h.BaseHandler, c, http.StatusOK, cart, err)
}

// PromotionHandler lists promotion codes
type PromotionHandler struct {
	BaseHandler
	promotionService *tradeapp.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler
func NewPromotionHandler(promotionService *tradeapp.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// List handles GET /promotions
func (h *PromotionHandler) List(c *gin.Context) {
	promotions, err := h.promotionService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotions)
}

// GetByCode handles GET /promotions/:code
func (h *PromotionHandler) GetByCode(c *gin.Context) {
	promotion, err := h.promotionService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotion)
}
