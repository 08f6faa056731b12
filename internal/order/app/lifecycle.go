package app

import "github.com/jcmexdev/order-placement/internal/order/domain"

// ValidateTransition is the pure state-machine check applied before any
// status write. It returns an InvalidTransitionError for every (current,
// requested) pair outside the allowed edge set, including self-transitions
// and anything out of a terminal state.
func ValidateTransition(current, requested domain.OrderStatus) error {
	if !current.CanTransitionTo(requested) {
		return &domain.InvalidTransitionError{From: current, To: requested}
	}
	return nil
}
