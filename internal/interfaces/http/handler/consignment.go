package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	consignmentapp "github.com/koifarm/backend/internal/application/consignment"
)

// ConsignmentHandler handles consignment intake and review endpoints
type ConsignmentHandler struct {
	BaseHandler
	consignmentService *consignmentapp.ConsignmentService
}

// NewConsignmentHandler creates a new ConsignmentHandler
func NewConsignmentHandler(consignmentService *consignmentapp.ConsignmentService) *ConsignmentHandler {
	return &ConsignmentHandler{consignmentService: consignmentService}
}

// Intake handles POST /consignments/items
func (h *ConsignmentHandler) Intake(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	var req consignmentapp.IntakeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.consignmentService.Intake(c.Request.Context(), userID, req)
	respond(&h.BaseHandler, c, http.StatusCreated, resp, err)
}

// Update handles PUT /consignments/items/:id
func (h *ConsignmentHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req consignmentapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.consignmentService.Update(c.Request.Context(), id, req)
	respond(&h.BaseHandler, c, http.StatusOK, resp, err)
}

// Delete handles DELETE /consignments/items/:id
func (h *ConsignmentHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.consignmentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id})
}

// Review handles PATCH /consignments/items/:id/status
func (h *ConsignmentHandler) Review(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req consignmentapp.ReviewItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.consignmentService.ReviewItem(c.Request.Context(), id, req)
	respond(&h.BaseHandler, c, http.StatusOK, resp, err)
}

// CheckoutHealthcare handles POST /consignments/checkout
func (h *ConsignmentHandler) CheckoutHealthcare(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	var req consignmentapp.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.consignmentService.CheckoutHealthcare(c.Request.Context(), userID, req.ProductItemID)
	respond(&h.BaseHandler, c, http.StatusCreated, resp, err)
}

// NotifySellerResponse reports who was told about a sale
type NotifySellerResponse struct {
	Email string `json:"email"`
}

// NotifySeller handles POST /consignments/product-items/:id/notify-seller
func (h *ConsignmentHandler) NotifySeller(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	email, err := h.consignmentService.NotifySeller(c.Request.Context(), id)
	var resp *NotifySellerResponse
	if email != "" {
		resp = &NotifySellerResponse{Email: email}
	}
	respond(&h.BaseHandler, c, http.StatusOK, resp, err)
}

// GetItem handles GET /consignments/items/:id
func (h *ConsignmentHandler) GetItem(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	item, err := h.consignmentService.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListAll handles GET /consignments
func (h *ConsignmentHandler) ListAll(c *gin.Context) {
	consignments, err := h.consignmentService.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, consignments)
}

// ListMine handles GET /consignments/items/mine
func (h *ConsignmentHandler) ListMine(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	items, err := h.consignmentService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListByType handles GET /consignments/items/type/:type
func (h *ConsignmentHandler) ListByType(c *gin.Context) {
	items, err := h.consignmentService.ListByItemType(c.Request.Context(), c.Param("type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}
