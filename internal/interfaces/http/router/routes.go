package router

import (
	"github.com/gin-gonic/gin"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/interfaces/http/handler"
	"github.com/koifarm/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything mounted under /api/v1
type Handlers struct {
	System      *handler.SystemHandler
	Category    *handler.CategoryHandler
	ProductItem *handler.ProductItemHandler
	Consignment *handler.ConsignmentHandler
	Order       *handler.OrderHandler
	Cart        *handler.CartHandler
	Promotion   *handler.PromotionHandler
	User        *handler.UserHandler
}

// DomainGroups lays out the API. authn guards every route that needs a
// caller; staff-only and manager-only routes add a role check on top.
func DomainGroups(h Handlers, authn gin.HandlerFunc) []*DomainGroup {
	staff := middleware.RequireRole(identity.RoleStaff, identity.RoleManager)
	manager := middleware.RequireRole(identity.RoleManager)

	system := NewDomainGroup("system", "").
		GET("/health", h.System.Health)

	storefront := NewDomainGroup("storefront", "")
	storefront.GET("/categories", h.Category.List).
		GET("/categories/:id", h.Category.GetByID).
		GET("/product-items", h.ProductItem.List).
		GET("/product-items/type/:type", h.ProductItem.ListByType).
		GET("/product-items/:id", h.ProductItem.GetByID).
		GET("/promotions", h.Promotion.List).
		GET("/promotions/:code", h.Promotion.GetByCode)

	categories := NewDomainGroup("categories", "/categories").Use(authn, staff)
	categories.POST("", h.Category.Create).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	users := NewDomainGroup("users", "/users").Use(authn)
	users.GET("/me", h.User.Me).
		PUT("/me", h.User.UpdateMe).
		GET("", staff, h.User.List).
		POST("/staff", manager, h.User.CreateStaff).
		GET("/role/:roleId", staff, h.User.ListByRole)

	cart := NewDomainGroup("cart", "/cart").Use(authn)
	cart.GET("", h.Cart.Get).
		POST("/items", h.Cart.AddItem).
		DELETE("/items/:productItemId", h.Cart.RemoveItem)

	consignments := NewDomainGroup("consignments", "/consignments").Use(authn)
	consignments.GET("", staff, h.Consignment.ListAll).
		POST("/items", h.Consignment.Intake).
		GET("/items/mine", h.Consignment.ListMine).
		GET("/items/type/:type", staff, h.Consignment.ListByType).
		GET("/items/:id", h.Consignment.GetItem).
		PUT("/items/:id", h.Consignment.Update).
		DELETE("/items/:id", h.Consignment.Delete).
		PATCH("/items/:id/status", staff, h.Consignment.Review).
		POST("/checkout", h.Consignment.CheckoutHealthcare).
		POST("/product-items/:id/notify-seller", staff, h.Consignment.NotifySeller)

	orders := NewDomainGroup("orders", "/orders").Use(authn)
	orders.POST("", h.Order.Create).
		GET("", staff, h.Order.List).
		GET("/mine", h.Order.ListMine).
		GET("/assigned", staff, h.Order.ListAssigned).
		GET("/:id", h.Order.GetByID).
		PATCH("/:id/status", staff, h.Order.UpdateStatus).
		POST("/:id/cancel", h.Order.Cancel).
		PATCH("/:id/staff", manager, h.Order.AssignStaff).
		PATCH("/:id/delivered", staff, h.Order.SetDelivered).
		POST("/:id/notify-sellers", staff, h.Order.NotifySellers)

	return []*DomainGroup{system, storefront, categories, users, cart, consignments, orders}
}
