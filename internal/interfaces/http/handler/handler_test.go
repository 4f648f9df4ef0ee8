package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/koifarm/backend/internal/application/catalog"
	consignmentapp "github.com/koifarm/backend/internal/application/consignment"
	identityapp "github.com/koifarm/backend/internal/application/identity"
	"github.com/koifarm/backend/internal/application/notification"
	tradeapp "github.com/koifarm/backend/internal/application/trade"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/consignment"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/interfaces/http/dto"
	"github.com/koifarm/backend/internal/interfaces/http/middleware"
	"github.com/koifarm/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== Test Helpers ====================

// asUser stands in for the JWT middleware
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, id.String())
		c.Next()
	}
}

func perform(r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func newDispatcher(t *testing.T, m *testutil.Mocks) *notification.Dispatcher {
	t.Helper()
	engine, err := notification.NewTemplateEngine()
	require.NoError(t, err)
	return notification.NewDispatcher(m.Notifier, engine, zap.NewNop())
}

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error {
	return p.err
}

// ==================== HandleError ====================

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", shared.NewNotFoundError("order"), http.StatusNotFound, "order not found"},
		{"validation", shared.NewValidationError("fee must not be negative"), http.StatusBadRequest, "fee must not be negative"},
		{"conflict", shared.NewConflictError("already delivered"), http.StatusConflict, "already delivered"},
		{"unauthorized", shared.NewUnauthorizedError("login required"), http.StatusUnauthorized, "login required"},
		{"unknown error is hidden", errors.New("pq: connection reset"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w, resp := perform(r, http.MethodGet, "/x", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, resp.MessageError, tt.wantMsg)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestRespond(t *testing.T) {
	type payload struct {
		ID string `json:"id"`
	}
	h := &BaseHandler{}

	t.Run("nil data with error is a plain error", func(t *testing.T) {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			var data *payload
			respond(h, c, http.StatusOK, data, shared.NewNotFoundError("thing"))
		})
		w, resp := perform(r, http.MethodGet, "/x", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Nil(t, resp.Data)
	})

	t.Run("data with error is a partial 500", func(t *testing.T) {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			respond(h, c, http.StatusCreated, &payload{ID: "42"}, shared.NewNotificationError(errors.New("smtp down")))
		})
		w, resp := perform(r, http.MethodGet, "/x", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, map[string]any{"id": "42"}, resp.Data)
		assert.Equal(t, "failed to send notification", resp.MessageError)
	})
}

// ==================== Categories ====================

func TestCategoryHandler(t *testing.T) {
	setup := func() (*gin.Engine, *testutil.Mocks) {
		m := testutil.NewMocks()
		h := NewCategoryHandler(catalogapp.NewCategoryService(m.Categories))
		r := gin.New()
		r.POST("/categories", h.Create)
		r.GET("/categories/:id", h.GetByID)
		return r, m
	}

	t.Run("create answers 201", func(t *testing.T) {
		r, m := setup()
		m.Categories.On("ExistsByName", mock.Anything, "Kohaku", (*uuid.UUID)(nil)).Return(false, nil)
		m.Categories.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		w, resp := perform(r, http.MethodPost, "/categories", map[string]any{"name": "Kohaku"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Kohaku", data["name"])
		assert.Empty(t, resp.MessageError)
	})

	t.Run("duplicate name is 409", func(t *testing.T) {
		r, m := setup()
		m.Categories.On("ExistsByName", mock.Anything, "Kohaku", (*uuid.UUID)(nil)).Return(true, nil)

		w, resp := perform(r, http.MethodPost, "/categories", map[string]any{"name": "Kohaku"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, resp.MessageError, "already exists")
	})

	t.Run("missing name is 400", func(t *testing.T) {
		r, _ := setup()
		w, resp := perform(r, http.MethodPost, "/categories", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, resp.MessageError)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		r, m := setup()
		id := uuid.New()
		m.Categories.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("category"))

		w, _ := perform(r, http.MethodGet, "/categories/"+id.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		r, _ := setup()
		w, resp := perform(r, http.MethodGet, "/categories/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid id format", resp.MessageError)
	})
}

// ==================== Consignments ====================

func TestConsignmentHandler_CheckoutHealthcare(t *testing.T) {
	setup := func(t *testing.T) (*testutil.Mocks, *ConsignmentHandler, *identity.User, *catalog.ProductItem) {
		m := testutil.NewMocks()
		scope := m.Scope()
		svc := consignmentapp.NewConsignmentService(scope, scope, newDispatcher(t, m), zap.NewNop())
		svc.SetEventPublisher(m.Events)

		user, err := identity.NewUser("Hoa", "owner@koi.farm", "", identity.RoleCustomer)
		require.NoError(t, err)
		product, err := catalog.NewConsignedProductItem(uuid.New(), catalog.Attributes{Name: "Asagi"}, catalog.ComputePricing(nil))
		require.NoError(t, err)
		item := &consignment.ConsignmentItem{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			Name:              "Asagi",
			Fee:               decimal.NewFromInt(25000),
			Status:            consignment.ItemStatusPending,
			ConsignmentID:     uuid.New(),
			ProductItemID:     product.ID,
		}

		m.ProductItems.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		m.ConsignmentItems.On("FindByProductItemID", mock.Anything, product.ID).Return(item, nil)
		m.Users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		m.ConsignmentItems.On("SaveWithLock", mock.Anything, item).Return(nil)
		m.Orders.On("Create", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)
		return m, NewConsignmentHandler(svc), user, product
	}

	t.Run("creates the healthcare order", func(t *testing.T) {
		m, h, user, product := setup(t)
		m.Notifier.On("Send", mock.Anything, "owner@koi.farm", notification.TitleHealthcareInvoice, mock.AnythingOfType("string")).Return(nil)

		r := gin.New()
		r.POST("/checkout", asUser(user.ID), h.CheckoutHealthcare)
		w, resp := perform(r, http.MethodPost, "/checkout", map[string]any{"productItemId": product.ID})

		assert.Equal(t, http.StatusCreated, w.Code)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Pending", data["status"])
		assert.Empty(t, resp.MessageError)
	})

	t.Run("failed invoice reports the order and the error", func(t *testing.T) {
		m, h, user, product := setup(t)
		m.Notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		r := gin.New()
		r.POST("/checkout", asUser(user.ID), h.CheckoutHealthcare)
		w, resp := perform(r, http.MethodPost, "/checkout", map[string]any{"productItemId": product.ID})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.NotNil(t, resp.Data)
		assert.NotEmpty(t, resp.MessageError)
		m.Orders.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("anonymous caller is 401", func(t *testing.T) {
		_, h, _, product := setup(t)
		r := gin.New()
		r.POST("/checkout", h.CheckoutHealthcare)

		w, resp := perform(r, http.MethodPost, "/checkout", map[string]any{"productItemId": product.ID})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authentication required", resp.MessageError)
	})
}

func TestConsignmentHandler_NotifySeller_UnknownItem(t *testing.T) {
	m := testutil.NewMocks()
	scope := m.Scope()
	h := NewConsignmentHandler(consignmentapp.NewConsignmentService(scope, scope, newDispatcher(t, m), zap.NewNop()))
	id := uuid.New()
	m.ProductItems.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("product item"))

	r := gin.New()
	r.POST("/items/:id/notify-seller", h.NotifySeller)
	w, resp := perform(r, http.MethodPost, "/items/"+id.String()+"/notify-seller", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Nil(t, resp.Data)
}

// ==================== Orders ====================

func TestOrderHandler(t *testing.T) {
	setup := func(t *testing.T) (*gin.Engine, *testutil.Mocks) {
		m := testutil.NewMocks()
		scope := m.Scope()
		svc := tradeapp.NewOrderService(scope, scope, m.Certificates, newDispatcher(t, m), nil, zap.NewNop())
		h := NewOrderHandler(svc)

		r := gin.New()
		r.POST("/orders", h.Create)
		r.GET("/orders/:id", h.GetByID)
		r.PATCH("/orders/:id/status", h.UpdateStatus)
		return r, m
	}

	t.Run("create without caller is 401", func(t *testing.T) {
		r, _ := setup(t)
		w, _ := perform(r, http.MethodPost, "/orders", map[string]any{"cartId": uuid.New()})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown order is 404", func(t *testing.T) {
		r, m := setup(t)
		id := uuid.New()
		m.Orders.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("order"))

		w, resp := perform(r, http.MethodGet, "/orders/"+id.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("status body is validated", func(t *testing.T) {
		r, _ := setup(t)
		w, _ := perform(r, http.MethodPatch, "/orders/"+uuid.New().String()+"/status", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ==================== Users ====================

func TestUserHandler_UpdateMe(t *testing.T) {
	m := testutil.NewMocks()
	h := NewUserHandler(identityapp.NewUserService(m.Users, zap.NewNop()))
	user, err := identity.NewUser("Mai", "mai@koi.farm", "", identity.RoleCustomer)
	require.NoError(t, err)
	m.Users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	m.Users.On("Save", mock.Anything, user).Return(nil)

	r := gin.New()
	r.PUT("/users/me", asUser(user.ID), h.UpdateMe)

	t.Run("updates the caller", func(t *testing.T) {
		w, resp := perform(r, http.MethodPut, "/users/me", map[string]any{"name": "Mai Anh", "phone": "0922222222"})

		assert.Equal(t, http.StatusOK, w.Code)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Mai Anh", data["name"])
		assert.Equal(t, "0922222222", data["phone"])
	})

	t.Run("empty name fails binding", func(t *testing.T) {
		w, _ := perform(r, http.MethodPut, "/users/me", map[string]any{"name": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ==================== Health ====================

func TestSystemHandler_Health(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewSystemHandler("koi-farm-api", "1.0.0", fakePinger{}).Health)

		w, resp := perform(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "up", data["database"])
		assert.Equal(t, "koi-farm-api", data["name"])
	})

	t.Run("database down is 503", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewSystemHandler("koi-farm-api", "1.0.0", fakePinger{err: errors.New("refused")}).Health)

		w, resp := perform(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "down", resp.Data.(map[string]any)["database"])
		assert.Equal(t, "database unreachable", resp.MessageError)
	})
}
