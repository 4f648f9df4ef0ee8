package consignment

import (
	"context"
	"time"

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

const spanService = "consignment"

// ConsignmentService runs the seller intake workflow: intake, edits while
// pending, review, healthcare checkout and sold notifications.
type ConsignmentService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	dispatcher     *notification.Dispatcher
	eventPublisher shared.EventPublisher
	metrics        *telemetry.BusinessMetrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewConsignmentService creates a new ConsignmentService. repos serves reads
// outside a transaction; writes go through txScope.
func NewConsignmentService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	dispatcher *notification.Dispatcher,
	logger *zap.Logger,
) *ConsignmentService {
	return &ConsignmentService{
		repos:      repos,
		txScope:    txScope,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ConsignmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *ConsignmentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Intake prices a seller's koi, lists it as a single-unit product item and
// records it as a pending item of the seller's consignment.
func (s *ConsignmentService) Intake(ctx context.Context, userID uuid.UUID, req IntakeRequest) (resp *IntakeResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "intake",
		attribute.String("user.id", userID.String()),
		attribute.String("category.id", req.CategoryID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	if _, err = s.repos.Categories().FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if _, err = s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	pricing := catalog.ComputePricing(req.SalePrice)
	product, err := catalog.NewConsignedProductItem(req.CategoryID, req.attributes(), pricing)
	if err != nil {
		return nil, err
	}

	var c *consignment.Consignment
	var item *consignment.ConsignmentItem
	err = s.txScope.Execute(ctx, func(tx appshared.TransactionalRepositories) error {
		category, err := tx.Categories().FindByIDForUpdate(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		if err := category.IncreaseStock(product.Quantity); err != nil {
			return err
		}
		if err := tx.Categories().SaveWithLock(ctx, category); err != nil {
			return err
		}
		if err := tx.ProductItems().Save(ctx, product); err != nil {
			return err
		}

		c, err = tx.Consignments().GetOrCreateByUser(ctx, userID)
		if err != nil {
			return err
		}
		item, err = c.Submit(product, pricing.Fee)
		if err != nil {
			return err
		}
		return tx.ConsignmentItems().Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, c)
	if s.metrics != nil {
		s.metrics.RecordConsignmentIntake(ctx, product.ItemType.String())
	}
	span.SetAttributes(
		attribute.String("product_item.type", pricing.Type.String()),
		attribute.String("consignment_item.id", item.ID.String()),
	)

	return &IntakeResponse{
		Item: ToConsignmentItemResponse(item),
		ProductItem: ProductItemSummary{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			ItemType: product.ItemType.String(),
			Quantity: product.Quantity,
		},
	}, nil
}

// Update edits a pending item together with its product item. Nothing is
// written unless the item is still pending.
func (s *ConsignmentService) Update(ctx context.Context, itemID uuid.UUID, req UpdateItemRequest) (resp *ConsignmentItemResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "update",
		attribute.String("consignment_item.id", itemID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	var item *consignment.ConsignmentItem
	err = s.txScope.Execute(ctx, func(tx appshared.TransactionalRepositories) error {
		var err error
		item, err = tx.ConsignmentItems().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := item.EnsureEditable(); err != nil {
			return err
		}

		version := item.Version
		if err := item.Edit(req.itemPatch()); err != nil {
			return err
		}

		product, err := tx.ProductItems().FindByIDForUpdate(ctx, item.ProductItemID)
		if err != nil {
			return err
		}
		if err := s.patchProduct(ctx, tx, product, req.productPatch()); err != nil {
			return err
		}

		if item.Version != version {
			return tx.ConsignmentItems().SaveWithLock(ctx, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToConsignmentItemResponse(item)
	return &response, nil
}

// patchProduct applies the patch and moves the category by the same
// quantity delta so both stay in step.
func (s *ConsignmentService) patchProduct(ctx context.Context, tx appshared.TransactionalRepositories, product *catalog.ProductItem, patch catalog.Patch) error {
	if patch.IsEmpty() {
		return nil
	}
	oldQty := product.Quantity
	if err := product.ApplyPatch(patch); err != nil {
		return err
	}

	if delta := product.Quantity - oldQty; delta != 0 {
		category, err := tx.Categories().FindByIDForUpdate(ctx, product.CategoryID)
		if err != nil {
			return err
		}
		if delta > 0 {
			err = category.IncreaseStock(delta)
		} else {
			err = category.DecreaseStock(-delta)
		}
		if err != nil {
			return err
		}
		if err := tx.Categories().SaveWithLock(ctx, category); err != nil {
			return err
		}
	}
	return tx.ProductItems().SaveWithLock(ctx, product)
}

// Delete removes a consignment item regardless of its status
func (s *ConsignmentService) Delete(ctx context.Context, itemID uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "delete",
		attribute.String("consignment_item.id", itemID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	return s.repos.ConsignmentItems().Delete(ctx, itemID)
}

// ReviewItem moves an item to a new review status
func (s *ConsignmentService) ReviewItem(ctx context.Context, itemID uuid.UUID, req ReviewItemRequest) (resp *ConsignmentItemResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "review",
		attribute.String("consignment_item.id", itemID.String()),
		attribute.String("status", req.Status),
	)
	defer func() { telemetry.End(span, err) }()

	status := consignment.ItemStatus(req.Status)
	if !status.IsValid() {
		return nil, shared.NewValidationError("invalid consignment item status: %s", req.Status)
	}

	var item *consignment.ConsignmentItem
	err = s.txScope.Execute(ctx, func(tx appshared.TransactionalRepositories) error {
		var err error
		item, err = tx.ConsignmentItems().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := item.ChangeStatus(status); err != nil {
			return err
		}
		return tx.ConsignmentItems().SaveWithLock(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	response := ToConsignmentItemResponse(item)
	return &response, nil
}

// CheckoutHealthcare bills a boarded koi for every started day since intake,
// marks its consignment item CheckedOut and opens a pending order for the
// caller. A koi checks out once. The invoice email is sent after the order
// is stored; a failed send is returned as a notification failure alongside
// the committed order.
func (s *ConsignmentService) CheckoutHealthcare(ctx context.Context, userID, productItemID uuid.UUID) (resp *CheckoutResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "checkout_healthcare",
		attribute.String("user.id", userID.String()),
		attribute.String("product_item.id", productItemID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	product, err := s.repos.ProductItems().FindByID(ctx, productItemID)
	if err != nil {
		return nil, err
	}
	if !product.IsHealthcare() {
		return nil, shared.NewValidationError("product item %s is not a healthcare item", product.ID)
	}
	item, err := s.repos.ConsignmentItems().FindByProductItemID(ctx, product.ID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewValidationError("product item %s has no consignment", product.ID)
		}
		return nil, err
	}
	if !item.Fee.IsPositive() {
		return nil, shared.NewValidationError("consignment item %s has no healthcare fee", item.ID)
	}
	if err := item.CheckOut(); err != nil {
		return nil, err
	}
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	bill := consignment.BillHealthcare(item.Fee, item.CreatedAt, s.now())
	order, err := trade.NewOrder(user.ID, user.Address)
	if err != nil {
		return nil, err
	}
	if err := order.AddHealthcareLine(product.ID, item.ID, bill.Total); err != nil {
		return nil, err
	}
	if err := order.Place(nil); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(tx appshared.TransactionalRepositories) error {
		if err := tx.ConsignmentItems().SaveWithLock(ctx, item); err != nil {
			return err
		}
		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, order)
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, telemetry.OrderKindHealthcare)
	}

	resp = &CheckoutResponse{
		OrderID: order.ID,
		Days:    bill.Days,
		Fee:     item.Fee,
		Total:   order.Total,
		Status:  order.Status.String(),
	}

	err = s.dispatcher.HealthcareInvoice(ctx, user.Email, notification.HealthcareInvoice{
		CustomerName: user.Name,
		ItemName:     product.Name,
		OrderID:      order.ID,
		BoardedAt:    item.CreatedAt,
		Days:         bill.Days,
		Fee:          item.Fee,
		Total:        order.Total,
	})
	return resp, err
}

// NotifySeller emails the seller of a sold shop item. The seller's address
// is returned whenever it was resolved, also when the send fails.
func (s *ConsignmentService) NotifySeller(ctx context.Context, productItemID uuid.UUID) (email string, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "notify_seller",
		attribute.String("product_item.id", productItemID.String()),
	)
	defer func() { telemetry.End(span, err) }()

	product, err := s.repos.ProductItems().FindByID(ctx, productItemID)
	if err != nil {
		return "", err
	}
	if !product.IsShopUser() {
		return "", shared.NewValidationError("product item %s is not listed for sale", product.ID)
	}
	seller, err := s.sellerOf(ctx, product.ID)
	if err != nil {
		return "", err
	}

	err = s.dispatcher.ItemSold(ctx, seller.Email, notification.ItemSold{
		SellerName: seller.Name,
		ItemName:   product.Name,
		Price:      product.Price,
	})
	return seller.Email, err
}

// sellerOf walks product item → consignment item → consignment → user
func (s *ConsignmentService) sellerOf(ctx context.Context, productItemID uuid.UUID) (*identity.User, error) {
	item, err := s.repos.ConsignmentItems().FindByProductItemID(ctx, productItemID)
	if err != nil {
		return nil, err
	}
	c, err := s.repos.Consignments().FindByID(ctx, item.ConsignmentID)
	if err != nil {
		return nil, err
	}
	return s.repos.Users().FindByID(ctx, c.UserID)
}

// GetItem returns one consignment item
func (s *ConsignmentService) GetItem(ctx context.Context, itemID uuid.UUID) (*ConsignmentItemResponse, error) {
	item, err := s.repos.ConsignmentItems().FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	response := ToConsignmentItemResponse(item)
	return &response, nil
}

// ListAll returns every consignment with its items
func (s *ConsignmentService) ListAll(ctx context.Context) ([]ConsignmentResponse, error) {
	list, err := s.repos.Consignments().FindAllWithItems(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ConsignmentResponse, len(list))
	for i := range list {
		responses[i] = ToConsignmentResponse(&list[i])
	}
	return responses, nil
}

// ListByUser returns the items the user has consigned
func (s *ConsignmentService) ListByUser(ctx context.Context, userID uuid.UUID) ([]ConsignmentItemResponse, error) {
	items, err := s.repos.ConsignmentItems().FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToConsignmentItemResponses(items), nil
}

// ListByItemType returns the items whose product item has the given type
func (s *ConsignmentService) ListByItemType(ctx context.Context, itemType string) ([]ConsignmentItemResponse, error) {
	t := catalog.ProductItemType(itemType)
	if !t.IsValid() {
		return nil, shared.NewValidationError("invalid product item type: %s", itemType)
	}
	items, err := s.repos.ConsignmentItems().FindByItemType(ctx, t)
	if err != nil {
		return nil, err
	}
	return ToConsignmentItemResponses(items), nil
}

// requireUser loads the caller; an unknown caller is unauthorized
func (s *ConsignmentService) requireUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.repos.Users().FindByID(ctx, userID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewUnauthorizedError("user not found")
		}
		return nil, err
	}
	return user, nil
}

// publish hands the aggregate's events to the bus after commit. Publishing
// failures are logged and never fail the operation.
func (s *ConsignmentService) publish(ctx context.Context, aggregate shared.EventSource) {
	events := aggregate.PullEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Error(err),
		)
	}
}
