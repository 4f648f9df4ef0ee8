package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/identity"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type for order events
const AggregateTypeOrder = "Order"

// MaxAddressLength bounds the delivery address
const MaxAddressLength = 200

// Order is a checkout of a cart or a healthcare item.
// Total is fixed when the order is placed and never recomputed.
type Order struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	StaffID     *uuid.UUID      `gorm:"type:uuid;index"`
	PromotionID *uuid.UUID      `gorm:"type:uuid"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'Pending';index"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Address     string          `gorm:"type:varchar(200)"`
	IsDelivered bool            `gorm:"not null;default:false"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	placed      bool            `gorm:"-"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// LineKind tells shop purchase lines from healthcare checkout lines
type LineKind string

const (
	LineKindProduct    LineKind = "Product"
	LineKindHealthcare LineKind = "Healthcare"
)

// OrderItem is one line of an order. It references a product item for shop
// purchases, and additionally a consignment item for healthcare checkouts.
// Kind is stored so the line keeps its meaning after the consignment item
// is gone.
type OrderItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind              LineKind        `gorm:"type:varchar(20);not null;default:'Product'"`
	Quantity          int             `gorm:"not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ProductItemID     *uuid.UUID      `gorm:"type:uuid;index"`
	ConsignmentItemID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Amount returns quantity × unit price
func (i *OrderItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ResolveUnitPrice picks a line's price: the product price when known,
// else the consignment fee, else zero.
func ResolveUnitPrice(productPrice, consignmentFee *decimal.Decimal) decimal.Decimal {
	if productPrice != nil {
		return *productPrice
	}
	if consignmentFee != nil {
		return *consignmentFee
	}
	return decimal.Zero
}

// NewOrder creates a pending order shipped to address
func NewOrder(userID uuid.UUID, address string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("user is required")
	}
	if len(address) > MaxAddressLength {
		return nil, shared.NewValidationError("address cannot exceed %d characters", MaxAddressLength)
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            OrderStatusPending,
		Total:             decimal.Zero,
		Address:           address,
		Items:             make([]OrderItem, 0),
	}, nil
}

// AddProductLine adds a shop purchase line
func (o *Order) AddProductLine(productItemID uuid.UUID, qty int, unitPrice decimal.Decimal) error {
	if qty <= 0 {
		return shared.NewValidationError("quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("unit price cannot be negative")
	}
	o.addLine(LineKindProduct, &productItemID, nil, qty, unitPrice)
	return nil
}

// AddHealthcareLine adds the single line of a healthcare checkout,
// priced at the accrued boarding bill
func (o *Order) AddHealthcareLine(productItemID, consignmentItemID uuid.UUID, bill decimal.Decimal) error {
	if !bill.IsPositive() {
		return shared.NewValidationError("healthcare bill must be positive")
	}
	o.addLine(LineKindHealthcare, &productItemID, &consignmentItemID, 1, bill)
	return nil
}

func (o *Order) addLine(kind LineKind, productItemID, consignmentItemID *uuid.UUID, qty int, unitPrice decimal.Decimal) {
	now := time.Now()
	o.Items = append(o.Items, OrderItem{
		ID:                uuid.New(),
		OrderID:           o.ID,
		Kind:              kind,
		Quantity:          qty,
		UnitPrice:         unitPrice,
		ProductItemID:     productItemID,
		ConsignmentItemID: consignmentItemID,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
}

// Subtotal returns Σ quantity × unit price over the lines
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range o.Items {
		sum = sum.Add(o.Items[i].Amount())
	}
	return sum
}

// Place fixes the total: the subtotal of all lines, then the promotion
// applied once if it is valid. It raises OrderPlaced.
func (o *Order) Place(promo *Promotion) error {
	if o.placed {
		return shared.NewConflictError("order has already been placed")
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("order must have at least one item")
	}
	total := o.Subtotal()
	if promo != nil && promo.IsValid() {
		total = promo.Apply(total)
		o.PromotionID = &promo.ID
	}
	o.Total = total
	o.placed = true
	o.Record(NewOrderPlacedEvent(o))
	return nil
}

// Cancel moves the order to Cancelled. Only Pending and Failed orders can
// be cancelled; the caller restores inventory for the lines.
func (o *Order) Cancel() error {
	if err := OrderLifecycle.Transition(o.Status, OrderStatusCancelled); err != nil {
		return err
	}
	o.Status = OrderStatusCancelled
	o.Touch()
	o.Record(NewOrderCancelledEvent(o))
	return nil
}

// AssignStaff hands a pending order to a staff member
func (o *Order) AssignStaff(staff *identity.User) error {
	if err := OrderLifecycle.Check(ActionAssignStaff, o.Status); err != nil {
		return err
	}
	if staff == nil {
		return shared.NewNotFoundError("staff")
	}
	if !staff.IsStaff() {
		return shared.NewValidationError("user %s is not a staff member", staff.ID)
	}
	o.StaffID = &staff.ID
	o.Touch()
	return nil
}

// SetDelivered records delivery of a completed order. It can be set once.
func (o *Order) SetDelivered(delivered bool) error {
	if err := OrderLifecycle.Check(ActionSetDelivered, o.Status); err != nil {
		return err
	}
	if o.IsDelivered {
		return shared.NewConflictError("order has already been marked as delivered")
	}
	o.IsDelivered = delivered
	o.Touch()
	return nil
}

// OverwriteStatus writes any settable status without consulting the
// transition table. It backs the administrative status endpoint.
func (o *Order) OverwriteStatus(status OrderStatus) error {
	if !status.IsSettable() {
		return shared.NewValidationError("invalid order status: %s", status)
	}
	if o.Status == status {
		return nil
	}
	old := o.Status
	o.Status = status
	o.Touch()
	o.Record(NewOrderStatusChangedEvent(o, old))
	return nil
}

// CanCancel reports whether Cancel would succeed
func (o *Order) CanCancel() bool {
	return OrderLifecycle.CanTransition(o.Status, OrderStatusCancelled)
}

// StockLines returns the shop purchase lines, which moved inventory when
// the order was placed. Healthcare lines never touch stock.
func (o *Order) StockLines() []OrderItem {
	lines := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Kind == LineKindProduct && item.ProductItemID != nil {
			lines = append(lines, item)
		}
	}
	return lines
}
