package consignment

import "github.com/koifarm/backend/internal/domain/statemachine"

// ItemStatus is the review status of a consignment item
type ItemStatus string

const (
	ItemStatusPending    ItemStatus = "Pending"
	ItemStatusApproved   ItemStatus = "Approved"
	ItemStatusRejected   ItemStatus = "Rejected"
	ItemStatusSold       ItemStatus = "Sold"
	// ItemStatusCheckedOut marks a boarded item its owner has taken back
	ItemStatusCheckedOut ItemStatus = "CheckedOut"
)

// ActionEdit names content edits of an item
const ActionEdit = "edit"

// ItemLifecycle is the transition table for consignment items.
// Only Pending items accept content edits. A Sold item goes back to
// Approved when the order that sold it is cancelled.
var ItemLifecycle = statemachine.New(statemachine.Definition[ItemStatus]{
	Name: "consignment item",
	Transitions: map[ItemStatus][]ItemStatus{
		ItemStatusPending:  {ItemStatusApproved, ItemStatusRejected, ItemStatusSold, ItemStatusCheckedOut},
		ItemStatusApproved: {ItemStatusSold, ItemStatusCheckedOut},
		ItemStatusSold:     {ItemStatusApproved},
	},
	Actions: map[string][]ItemStatus{
		ActionEdit: {ItemStatusPending},
	},
})

// IsValid checks if the status belongs to the lifecycle
func (s ItemStatus) IsValid() bool {
	return ItemLifecycle.IsValid(s)
}

// String returns the string representation
func (s ItemStatus) String() string {
	return string(s)
}
