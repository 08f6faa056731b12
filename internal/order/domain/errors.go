package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable failure modes of the core. The HTTP
// layer maps these onto status codes; nothing here is fatal to the process.
var (
	ErrCartNotFound  = errors.New("cart not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrItemNotFound  = errors.New("item not found")
	ErrCartEmpty     = errors.New("cart is empty")
)

// VersionConflictError reports an optimistic-lock failure: the stored cart
// was modified between the caller's read and its write attempt. The caller
// should re-read and retry.
type VersionConflictError struct {
	CartID   string
	Expected int64
	Actual   int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("cart %s was modified concurrently: expected version %d, actual %d",
		e.CartID, e.Expected, e.Actual)
}

// InvalidTransitionError reports a status change outside the allowed edge
// set of the order state machine.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}
