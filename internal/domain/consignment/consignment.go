package consignment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/catalog"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeConsignment is the aggregate type for consignment events
const AggregateTypeConsignment = "Consignment"

// Consignment is a seller's standing intake record. Each user has at most one.
type Consignment struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []ConsignmentItem `gorm:"foreignKey:ConsignmentID;references:ID"`
}

// TableName returns the table name for GORM
func (Consignment) TableName() string {
	return "consignments"
}

// NewConsignment creates an empty consignment for a seller
func NewConsignment(userID uuid.UUID) *Consignment {
	return &Consignment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]ConsignmentItem, 0),
	}
}

// Submit records a new pending item for the product item and raises
// ItemSubmitted.
func (c *Consignment) Submit(product *catalog.ProductItem, fee decimal.Decimal) (*ConsignmentItem, error) {
	if product == nil {
		return nil, shared.NewValidationError("product item is required")
	}
	if fee.IsNegative() {
		return nil, shared.NewValidationError("fee cannot be negative")
	}
	if c.Items == nil {
		c.Items = make([]ConsignmentItem, 0)
	}
	item := ConsignmentItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              product.Name,
		Fee:               fee,
		Status:            ItemStatusPending,
		ConsignmentID:     c.ID,
		ProductItemID:     product.ID,
	}
	c.Items = append(c.Items, item)
	c.Record(NewItemSubmittedEvent(c, &item, product.ItemType))
	return &c.Items[len(c.Items)-1], nil
}

// ConsignmentItem links a consigned product item to its seller's consignment
type ConsignmentItem struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(200);not null"`
	Fee           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status        ItemStatus      `gorm:"type:varchar(20);not null;default:'Pending';index"`
	ConsignmentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductItemID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ConsignmentItem) TableName() string {
	return "consignment_items"
}

// ItemPatch holds optional replacements for an item's own fields
type ItemPatch struct {
	Name *string
	Fee  *decimal.Decimal
}

// CanEdit reports whether the item still accepts content edits
func (i *ConsignmentItem) CanEdit() bool {
	return ItemLifecycle.Permits(ActionEdit, i.Status)
}

// EnsureEditable returns a conflict error unless the item is Pending
func (i *ConsignmentItem) EnsureEditable() error {
	if !i.CanEdit() {
		return shared.NewConflictError("consignment item can only be updated while %s, current status is %s", ItemStatusPending, i.Status)
	}
	return nil
}

// Edit applies the non-nil fields of the patch
func (i *ConsignmentItem) Edit(p ItemPatch) error {
	if err := i.EnsureEditable(); err != nil {
		return err
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return shared.NewValidationError("item name cannot be empty")
	}
	if p.Fee != nil && p.Fee.IsNegative() {
		return shared.NewValidationError("fee cannot be negative")
	}
	if p.Name == nil && p.Fee == nil {
		return nil
	}
	if p.Name != nil {
		i.Name = strings.TrimSpace(*p.Name)
	}
	if p.Fee != nil {
		i.Fee = *p.Fee
	}
	i.Touch()
	return nil
}

// ChangeStatus moves the item along its lifecycle
func (i *ConsignmentItem) ChangeStatus(to ItemStatus) error {
	if err := ItemLifecycle.Transition(i.Status, to); err != nil {
		return err
	}
	i.Status = to
	i.Touch()
	return nil
}

// MarkSold records that the item's product sold out. It reports whether
// the status changed; Rejected and CheckedOut items are left as they are.
func (i *ConsignmentItem) MarkSold() bool {
	if !ItemLifecycle.CanTransition(i.Status, ItemStatusSold) {
		return false
	}
	i.Status = ItemStatusSold
	i.Touch()
	return true
}

// Relist puts a Sold item back on sale after its sale was cancelled.
// It reports whether the status changed.
func (i *ConsignmentItem) Relist() bool {
	if i.Status != ItemStatusSold {
		return false
	}
	i.Status = ItemStatusApproved
	i.Touch()
	return true
}

// CheckOut hands a boarded item back to its owner. A second checkout is
// a validation error.
func (i *ConsignmentItem) CheckOut() error {
	if i.Status == ItemStatusCheckedOut {
		return shared.NewValidationError("consignment item %s is already checked out", i.ID)
	}
	return i.ChangeStatus(ItemStatusCheckedOut)
}
