package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/koifarm/backend/internal/application/trade"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	var req tradeapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.CreateFromCart(c.Request.Context(), userID, req)
	respond(&h.BaseHandler, c, http.StatusCreated, order, err)
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	respond(&h.BaseHandler, c, http.StatusOK, order, err)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Cancel(c.Request.Context(), id)
	respond(&h.BaseHandler, c, http.StatusOK, order, err)
}

// AssignStaff handles PATCH /orders/:id/staff
func (h *OrderHandler) AssignStaff(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.AssignStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.AssignStaff(c.Request.Context(), id, req)
	respond(&h.BaseHandler, c, http.StatusOK, order, err)
}

// SetDelivered handles PATCH /orders/:id/delivered
func (h *OrderHandler) SetDelivered(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.SetDeliveredRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.SetDelivered(c.Request.Context(), id, req)
	respond(&h.BaseHandler, c, http.StatusOK, order, err)
}

// NotifySellers handles POST /orders/:id/notify-sellers. Per-item failures
// are reported in the results, not as an error.
func (h *OrderHandler) NotifySellers(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	results, err := h.orderService.NotifySellersForOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// ListMine handles GET /orders/mine
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, err := h.orderService.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// ListAssigned handles GET /orders/assigned
func (h *OrderHandler) ListAssigned(c *gin.Context) {
	staffID, ok := h.callerID(c)
	if !ok {
		return
	}
	var filter tradeapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, err := h.orderService.ListByStaff(c.Request.Context(), staffID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}
