package domain

import "fmt"

// OrderStatus is the closed set of order lifecycle states.
//
// State machine:
//
//	PENDING -> CONFIRMED -> PROCESSING -> SHIPPED -> DELIVERED
//	PENDING, CONFIRMED  -> CANCELLED
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// ParseOrderStatus converts a wire string into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// IsCancellable reports whether an order in this state may still be
// cancelled. Only PENDING and CONFIRMED orders qualify.
func (s OrderStatus) IsCancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether this state has no outgoing transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsModifiable reports whether order contents may still change in this
// state. Once confirmed, an order is frozen.
func (s OrderStatus) IsModifiable() bool {
	return s == StatusPending
}

// CanTransitionTo validates a single edge of the state machine. Any pair
// outside the enumerated set is rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch next {
	case StatusConfirmed:
		return s == StatusPending
	case StatusProcessing:
		return s == StatusConfirmed
	case StatusShipped:
		return s == StatusProcessing
	case StatusDelivered:
		return s == StatusShipped
	case StatusCancelled:
		return s.IsCancellable()
	}
	return false
}
