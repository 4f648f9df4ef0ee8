package trade

import (
	"slices"

	"github.com/koifarm/backend/internal/domain/statemachine"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusDelivering OrderStatus = "Delivering"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusFailed     OrderStatus = "Failed"
)

// Actions guarded by the order lifecycle
const (
	ActionAssignStaff  = "assign staff to"
	ActionSetDelivered = "set delivery flag of"
)

// OrderLifecycle is the transition table for orders.
//
//	Pending → Delivering → Completed
//	Pending, Delivering → Failed
//	Pending, Failed → Cancelled
var OrderLifecycle = statemachine.New(statemachine.Definition[OrderStatus]{
	Name: "order",
	Transitions: map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusDelivering, OrderStatusCancelled, OrderStatusFailed},
		OrderStatusDelivering: {OrderStatusCompleted, OrderStatusFailed},
		OrderStatusFailed:     {OrderStatusCancelled},
	},
	Actions: map[string][]OrderStatus{
		ActionAssignStaff:  {OrderStatusPending},
		ActionSetDelivered: {OrderStatusCompleted},
	},
})

// SettableStatuses are the statuses an administrator may write directly
var SettableStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusDelivering,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValid checks if the status belongs to the lifecycle
func (s OrderStatus) IsValid() bool {
	return OrderLifecycle.IsValid(s)
}

// IsSettable checks if the status may be written directly
func (s OrderStatus) IsSettable() bool {
	return slices.Contains(SettableStatuses, s)
}

// String returns the string representation
func (s OrderStatus) String() string {
	return string(s)
}
