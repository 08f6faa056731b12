package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/order-placement/internal/order/domain"
	"github.com/jcmexdev/order-placement/internal/order/store"
	"github.com/jcmexdev/order-placement/internal/pkg/correlation"
	"github.com/jcmexdev/order-placement/internal/pkg/events"
)

// PlacementResult is the outcome of PlaceOrder. Duplicate is true when the
// idempotency key had already produced an order; the returned order is
// the stored one, not a new one.
type PlacementResult struct {
	Order     *domain.Order
	Duplicate bool
}

// OrderService owns the placement protocol and the order lifecycle.
type OrderService struct {
	orders    *store.OrderStore
	carts     *store.CartStore
	cartSvc   *CartService
	publisher events.Publisher // nil-safe: publishing skipped if nil
}

func NewOrderService(orders *store.OrderStore, carts *store.CartStore, cartSvc *CartService, publisher events.Publisher) *OrderService {
	return &OrderService{orders: orders, carts: carts, cartSvc: cartSvc, publisher: publisher}
}

// PlaceOrder converts a cart into an exactly-once order.
//
// Protocol: look up the idempotency key first and return the existing
// order on a hit; otherwise validate the cart, build an immutable order
// from a cart snapshot (price lock), and attempt the atomic
// insert-if-absent. If another goroutine won the race for the same key the
// stored order is returned, flagged as duplicate. Clearing the source cart
// after a genuine first save is best-effort: the order is already recorded
// so a clear failure is logged, never surfaced.
func (s *OrderService) PlaceOrder(ctx context.Context, cartID, idempotencyKey, shippingAddress, notes string) (PlacementResult, error) {
	slog.InfoContext(ctx, "placing order", "cart_id", cartID, "idempotency_key", idempotencyKey)

	if existing, ok := s.orders.FindByIdempotencyKey(idempotencyKey); ok {
		slog.InfoContext(ctx, "order already exists for idempotency key",
			"idempotency_key", idempotencyKey, "order_id", existing.OrderID)
		return PlacementResult{Order: existing, Duplicate: true}, nil
	}

	cart, ok := s.carts.FindByID(cartID)
	if !ok {
		return PlacementResult{}, fmt.Errorf("place order for cart %s: %w", cartID, domain.ErrCartNotFound)
	}
	if cart.IsEmpty() {
		return PlacementResult{}, fmt.Errorf("place order for cart %s: %w", cartID, domain.ErrCartEmpty)
	}

	order, err := domain.OrderFromCart(cart.Snapshot(), idempotencyKey, shippingAddress, notes)
	if err != nil {
		return PlacementResult{}, fmt.Errorf("place order for cart %s: %w", cartID, err)
	}

	saved := s.orders.SaveIfAbsentByIdempotencyKey(order)
	if saved.OrderID != order.OrderID {
		slog.InfoContext(ctx, "concurrent placement detected",
			"idempotency_key", idempotencyKey, "order_id", saved.OrderID)
		return PlacementResult{Order: saved, Duplicate: true}, nil
	}

	if _, err := s.cartSvc.ClearCart(ctx, cartID); err != nil {
		slog.WarnContext(ctx, "failed to clear cart after placement", "cart_id", cartID, "error", err)
	}

	slog.InfoContext(ctx, "order placed",
		"order_id", saved.OrderID, "user_id", saved.UserID, "item_count", saved.ItemCount(),
		"subtotal", saved.Subtotal, "tax", saved.Tax, "total", saved.Total)
	s.publish(ctx, events.New(events.TypeOrderPlaced, saved.OrderID, saved.UserID, correlation.FromContext(ctx)))

	return PlacementResult{Order: saved}, nil
}

// GetOrder fetches an order by ID, failing with ErrOrderNotFound when
// absent.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, ok := s.orders.FindByID(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// GetOrdersByUser lists the user's order history.
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID string) []*domain.Order {
	return s.orders.FindByUserID(userID)
}

// GetOrdersByStatus lists all orders currently in the given status.
func (s *OrderService) GetOrdersByStatus(ctx context.Context, status domain.OrderStatus) []*domain.Order {
	return s.orders.FindByStatus(status)
}

// ConfirmOrder transitions PENDING -> CONFIRMED.
func (s *OrderService) ConfirmOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.UpdateOrderStatus(ctx, orderID, domain.StatusConfirmed)
}

// CancelOrder cancels an order that is still cancellable (PENDING or
// CONFIRMED).
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.UpdateOrderStatus(ctx, orderID, domain.StatusCancelled)
}

// UpdateOrderStatus validates the requested transition against the state
// machine, then applies it through the store. On an invalid transition the
// stored order is left untouched.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(order.Status, status); err != nil {
		return nil, err
	}

	updated, ok := s.orders.UpdateStatus(orderID, status)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	slog.InfoContext(ctx, "order status updated",
		"order_id", orderID, "previous_status", order.Status, "new_status", status)
	s.publish(ctx, events.New(events.TypeOrderStatusChanged, orderID, updated.UserID, correlation.FromContext(ctx)))
	return updated, nil
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "event publish failed", "type", event.Type, "aggregate_id", event.AggregateID, "error", err)
	}
}
