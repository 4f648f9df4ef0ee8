package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	identityapp "github.com/koifarm/backend/internal/application/identity"
)

// UserHandler handles account endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateStaff handles POST /users/staff
func (h *UserHandler) CreateStaff(c *gin.Context) {
	var req identityapp.CreateStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.CreateStaff(c.Request.Context(), req)
	respond(&h.BaseHandler, c, http.StatusCreated, user, err)
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateMe handles PUT /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.callerID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	users, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// ListByRole handles GET /users/role/:roleId
func (h *UserHandler) ListByRole(c *gin.Context) {
	users, err := h.userService.ListByRole(c.Request.Context(), c.Param("roleId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}
