package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/application/notification"
	appshared "github.com/koifarm/backend/internal/application/shared"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/consignment"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/domain/trade"
	"github.com/koifarm/backend/internal/infrastructure/logger"
	"github.com/koifarm/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const spanService = "order"

// SellerNotifier emails the seller of a consigned product item that it
// sold. It returns the seller's address whenever it could be resolved.
type SellerNotifier interface {
	NotifySeller(ctx context.Context, productItemID uuid.UUID) (string, error)
}

// OrderService converts carts into orders and drives the order lifecycle.
// Every quantity change moves a product item and its category together
// inside one transaction.
type OrderService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	certificates   catalog.CertificateRepository
	dispatcher     *notification.Dispatcher
	sellers        SellerNotifier
	eventPublisher shared.EventPublisher
	metrics        *telemetry.BusinessMetrics
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	certificates catalog.CertificateRepository,
	dispatcher *notification.Dispatcher,
	sellers SellerNotifier,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		repos:        repos,
		txScope:      txScope,
		certificates: certificates,
		dispatcher:   dispatcher,
		sellers:      sellers,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// CreateFromCart places an order for every line of the user's cart, takes
// the quantities out of stock, applies the promotion once to the sum and
// consumes the cart. The confirmation email goes out after commit; a failed
// send is returned as a notification failure alongside the placed order.
func (s *OrderService) CreateFromCart(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "create_from_cart",
		attribute.String("user.id", userID.String()),
		attribute.String("cart.id", req.CartID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	cart, err := s.repos.Carts().FindByID(ctx, req.CartID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewValidationError("cart %s not found", req.CartID)
		}
		return nil, err
	}
	if !cart.BelongsTo(userID) {
		return nil, shared.NewValidationError("cart %s does not belong to the user", cart.ID)
	}
	if cart.IsEmpty() {
		return nil, shared.NewValidationError("cart is empty")
	}
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	promo, err := s.findPromotion(ctx, req.PromotionCode)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(user.ID, user.Address)
	if err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]*catalog.ProductItem, len(cart.Items))

	err = s.txScope.Execute(ctx, func(tx appshared.TransactionalRepositories) error {
		for _, line := range cart.Items {
			product, err := tx.ProductItems().FindByIDForUpdate(ctx, line.ProductItemID)
			if err != nil {
				return err
			}
			// Price is captured before the decrement, which may soft-delete the item.
			unitPrice := product.Price
			if err := takeStock(ctx, tx, product, line.Quantity); err != nil {
				return err
			}
			if product.IsDeleted() {
				if err := settleConsignment(ctx, tx, product.ID, (*consignment.ConsignmentItem).MarkSold); err != nil {
					return err
				}
			}
			if err := order.AddProductLine(product.ID, line.Quantity, unitPrice); err != nil {
				return err
			}
			products[product.ID] = product
		}

		if err := order.Place(promo); err != nil {
			return err
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		return tx.Carts().Delete(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order)
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, telemetry.OrderKindCart)
	}
	span.SetAttributes(
		attribute.String("order.id", order.ID.String()),
		attribute.String("order.total", order.Total.String()),
	)

	response := ToOrderResponse(order, products)
	return &response, s.sendConfirmation(ctx, user, order, products)
}

// takeStock moves qty out of the product item and its category
func takeStock(ctx context.Context, tx appshared.TransactionalRepositories, product *catalog.ProductItem, qty int) error {
	if err := product.DecreaseStock(qty); err != nil {
		return err
	}
	category, err := tx.Categories().FindByIDForUpdate(ctx, product.CategoryID)
	if err != nil {
		return err
	}
	if err := category.DecreaseStock(qty); err != nil {
		return err
	}
	if err := tx.ProductItems().SaveWithLock(ctx, product); err != nil {
		return err
	}
	return tx.Categories().SaveWithLock(ctx, category)
}

// returnStock puts qty back into the product item and its category. A
// sold-out item that comes back relists its consignment item.
func returnStock(ctx context.Context, tx appshared.TransactionalRepositories, productItemID uuid.UUID, qty int) error {
	product, err := tx.ProductItems().FindByIDForUpdate(ctx, productItemID)
	if err != nil {
		return err
	}
	revived := product.IsDeleted()
	if err := product.RestoreStock(qty); err != nil {
		return err
	}
	if revived {
		if err := settleConsignment(ctx, tx, product.ID, (*consignment.ConsignmentItem).Relist); err != nil {
			return err
		}
	}
	category, err := tx.Categories().FindByIDForUpdate(ctx, product.CategoryID)
	if err != nil {
		return err
	}
	if err := category.IncreaseStock(qty); err != nil {
		return err
	}
	if err := tx.ProductItems().SaveWithLock(ctx, product); err != nil {
		return err
	}
	return tx.Categories().SaveWithLock(ctx, category)
}

// settleConsignment applies move to the consignment item behind a product
// item and saves it when the status changed. Farm stock has no consignment
// item and is skipped.
func settleConsignment(ctx context.Context, tx appshared.TransactionalRepositories, productItemID uuid.UUID, move func(*consignment.ConsignmentItem) bool) error {
	item, err := tx.ConsignmentItems().FindByProductItemID(ctx, productItemID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil
		}
		return err
	}
	if !move(item) {
		return nil
	}
	return tx.ConsignmentItems().SaveWithLock(ctx, item)
}

// findPromotion returns the promotion answering to code, or nil when the
// code is empty or unknown
func (s *OrderService) findPromotion(ctx context.Context, code string) (*trade.Promotion, error) {
	if code == "" {
		return nil, nil
	}
	promo, err := s.repos.Promotions().FindByCode(ctx, code)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !promo.Matches(code) {
		return nil, nil
	}
	return promo, nil
}

func (s *OrderService) sendConfirmation(ctx context.Context, user *identity.User, order *trade.Order, products map[uuid.UUID]*catalog.ProductItem) error {
	ids := make([]uuid.UUID, 0, len(products))
	lines := make([]notification.OrderLine, 0, len(order.Items))
	for _, line := range order.Items {
		if line.ProductItemID == nil {
			continue
		}
		ids = append(ids, *line.ProductItemID)
		name := ""
		if p, ok := products[*line.ProductItemID]; ok {
			name = p.Name
		}
		lines = append(lines, notification.OrderLine{Name: name, Quantity: line.Quantity, UnitPrice: line.UnitPrice})
	}

	var urls []string
	certs, err := s.certificates.FindImageURLsByProductItems(ctx, ids)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to load certificates for confirmation",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	for _, id := range ids {
		urls = append(urls, certs[id]...)
	}

	return s.dispatcher.OrderConfirmation(ctx, user.Email, notification.OrderConfirmation{
		CustomerName:    user.Name,
		OrderID:         order.ID,
		PlacedAt:        order.CreatedAt,
		Address:         order.Address,
		Total:           order.Total,
		Lines:           lines,
		CertificateURLs: urls,
	})
}

// UpdateStatus overwrites the order's status with any caller-settable
// status, bypassing the transition table
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "update_status",
		attribute.String("order.id", orderID.String()),
		attribute.String("status", req.Status),
	)
	defer func() { telemetry.End(span, err) }()

	status := trade.OrderStatus(req.Status)
	if !status.IsSettable() {
		return nil, shared.NewValidationError("invalid order status: %s", req.Status)
	}

	order, err := s.mutate(ctx, orderID, func(_ appshared.TransactionalRepositories, o *trade.Order) error {
		return o.OverwriteStatus(status)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, order)
}

// Cancel cancels a pending or failed order and returns every stocked line
// to its product item and category
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "cancel",
		attribute.String("order.id", orderID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	order, err := s.mutate(ctx, orderID, func(tx appshared.TransactionalRepositories, o *trade.Order) error {
		if err := o.Cancel(); err != nil {
			return err
		}
		for _, line := range o.StockLines() {
			if err := returnStock(ctx, tx, *line.ProductItemID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordOrderCancelled(ctx)
	}
	return s.respond(ctx, order)
}

// AssignStaff hands a pending order to a staff member
func (s *OrderService) AssignStaff(ctx context.Context, orderID uuid.UUID, req AssignStaffRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "assign_staff",
		attribute.String("order.id", orderID.String()),
		attribute.String("staff.id", req.StaffID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	order, err := s.mutate(ctx, orderID, func(tx appshared.TransactionalRepositories, o *trade.Order) error {
		staff, err := tx.Users().FindByID(ctx, req.StaffID)
		if err != nil && !shared.IsCode(err, shared.CodeNotFound) {
			return err
		}
		return o.AssignStaff(staff)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, order)
}

// SetDelivered records delivery of a completed order
func (s *OrderService) SetDelivered(ctx context.Context, orderID uuid.UUID, req SetDeliveredRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "set_delivered",
		attribute.String("order.id", orderID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	delivered := req.Delivered != nil && *req.Delivered
	order, err := s.mutate(ctx, orderID, func(_ appshared.TransactionalRepositories, o *trade.Order) error {
		return o.SetDelivered(delivered)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, order)
}

// mutate locks the order, applies fn and saves the order if fn changed it
func (s *OrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(tx appshared.TransactionalRepositories, o *trade.Order) error) (*trade.Order, error) {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(tx appshared.TransactionalRepositories) error {
		var err error
		order, err = tx.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		version := order.Version
		if err := fn(tx, order); err != nil {
			return err
		}
		if order.Version == version {
			return nil
		}
		return tx.Orders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, order)
	return order, nil
}

// NotifySellersForOrder emails the seller of every shop item in the order.
// Each item gets its own result; one failure does not stop the others.
func (s *OrderService) NotifySellersForOrder(ctx context.Context, orderID uuid.UUID) (results []SellerNotificationResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "notify_sellers",
		attribute.String("order.id", orderID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	order, err := s.repos.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	products, err := s.productsOf(ctx, []trade.Order{*order})
	if err != nil {
		return nil, err
	}

	results = make([]SellerNotificationResult, 0, len(order.Items))
	for _, line := range order.Items {
		if line.ProductItemID == nil {
			continue
		}
		product, ok := products[*line.ProductItemID]
		if !ok || !product.IsShopUser() {
			continue
		}
		email, err := s.sellers.NotifySeller(ctx, product.ID)
		result := SellerNotificationResult{ProductItemID: product.ID, Email: email, Success: err == nil}
		if err != nil {
			result.Error = err.Error()
			logger.Enrich(ctx, s.logger).Warn("failed to notify seller",
				zap.String("order_id", order.ID.String()),
				zap.String("product_item_id", product.ID.String()),
				zap.Error(err),
			)
		}
		results = append(results, result)
	}
	span.SetAttributes(attribute.Int("notifications", len(results)))
	return results, nil
}

// GetByID returns one order
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.repos.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, order)
}

// List returns orders, optionally narrowed by status
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, error) {
	return s.find(ctx, trade.OrderQuery{}, filter)
}

// ListByUser returns the user's orders, optionally narrowed by status
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderResponse, error) {
	return s.find(ctx, trade.OrderQuery{UserID: &userID}, filter)
}

// ListByStaff returns the orders assigned to a staff member
func (s *OrderService) ListByStaff(ctx context.Context, staffID uuid.UUID, filter OrderListFilter) ([]OrderResponse, error) {
	return s.find(ctx, trade.OrderQuery{StaffID: &staffID}, filter)
}

func (s *OrderService) find(ctx context.Context, query trade.OrderQuery, filter OrderListFilter) ([]OrderResponse, error) {
	if filter.Status != "" {
		status := trade.OrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("invalid order status: %s", filter.Status)
		}
		query.Status = &status
	}
	query.Filter = shared.DefaultFilter()
	if filter.Page > 0 {
		query.Filter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		query.Filter.PageSize = filter.PageSize
	}

	orders, err := s.repos.Orders().Find(ctx, query)
	if err != nil {
		return nil, err
	}
	products, err := s.productsOf(ctx, orders)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i], products)
	}
	return responses, nil
}

func (s *OrderService) respond(ctx context.Context, order *trade.Order) (*OrderResponse, error) {
	products, err := s.productsOf(ctx, []trade.Order{*order})
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order, products)
	return &response, nil
}

// productsOf loads the product items referenced by the orders' lines
func (s *OrderService) productsOf(ctx context.Context, orders []trade.Order) (map[uuid.UUID]*catalog.ProductItem, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, o := range orders {
		for _, line := range o.Items {
			if line.ProductItemID == nil {
				continue
			}
			if _, ok := seen[*line.ProductItemID]; ok {
				continue
			}
			seen[*line.ProductItemID] = struct{}{}
			ids = append(ids, *line.ProductItemID)
		}
	}
	products := make(map[uuid.UUID]*catalog.ProductItem, len(ids))
	if len(ids) == 0 {
		return products, nil
	}
	items, err := s.repos.ProductItems().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		products[items[i].ID] = &items[i]
	}
	return products, nil
}

func (s *OrderService) requireUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.repos.Users().FindByID(ctx, userID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewUnauthorizedError("user not found")
		}
		return nil, err
	}
	return user, nil
}

// publish hands the order's events to the bus after commit. Publishing
// failures are logged and never fail the operation.
func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	events := order.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
