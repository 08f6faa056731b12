// Package app is the service layer: it orchestrates the stores and the
// aggregates, validates lifecycle transitions, and reports every mutation
// to the event publisher.
package app

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/order-placement/internal/order/domain"
	"github.com/jcmexdev/order-placement/internal/order/store"
	"github.com/jcmexdev/order-placement/internal/pkg/correlation"
	"github.com/jcmexdev/order-placement/internal/pkg/events"
)

// CartService owns cart creation and item-level mutations.
type CartService struct {
	carts     *store.CartStore
	publisher events.Publisher // nil-safe: publishing skipped if nil
}

func NewCartService(carts *store.CartStore, publisher events.Publisher) *CartService {
	return &CartService{carts: carts, publisher: publisher}
}

// CreateCart creates and stores an empty cart for the user. The user index
// repoints to the new cart; any previous cart is superseded, not deleted.
func (s *CartService) CreateCart(ctx context.Context, userID string) *domain.Cart {
	cart := domain.NewCart(userID)
	s.carts.Save(cart)

	slog.InfoContext(ctx, "cart created", "cart_id", cart.CartID(), "user_id", userID)
	s.publish(ctx, events.New(events.TypeCartCreated, cart.CartID(), userID, correlation.FromContext(ctx)))
	return cart
}

// GetCart fetches a cart by ID, failing with ErrCartNotFound when absent.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, ok := s.carts.FindByID(cartID)
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cart, nil
}

// GetCartByUserID fetches the user's current cart.
func (s *CartService) GetCartByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, ok := s.carts.FindByUserID(userID)
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cart, nil
}

// AddItem adds a line to the cart. A second addition of the same SKU
// reuses the existing item's key so the aggregate merges the quantities
// instead of growing a parallel line.
func (s *CartService) AddItem(ctx context.Context, cartID, sku, productName string, quantity int, unitPrice decimal.Decimal) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	item := domain.NewCartItem(sku, productName, quantity, unitPrice)
	if existing, ok := cart.ItemBySKU(sku); ok {
		item.ItemID = existing.ItemID
	}
	added := cart.AddItem(item)
	s.carts.Save(cart)

	slog.InfoContext(ctx, "item added to cart",
		"cart_id", cartID, "item_id", added.ItemID, "sku", added.SKU, "quantity", added.Quantity)
	s.publish(ctx, events.New(events.TypeCartItemAdded, cartID, cart.UserID(), correlation.FromContext(ctx)))
	return cart, nil
}

// UpdateItemQuantity replaces an item's quantity.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if _, err := cart.UpdateItemQuantity(itemID, quantity); err != nil {
		return nil, err
	}
	s.carts.Save(cart)

	slog.InfoContext(ctx, "item quantity updated", "cart_id", cartID, "item_id", itemID, "quantity", quantity)
	s.publish(ctx, events.New(events.TypeCartItemUpdated, cartID, cart.UserID(), correlation.FromContext(ctx)))
	return cart, nil
}

// RemoveItem removes an item, failing with ErrItemNotFound when the item
// is not in the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	removed, ok := cart.RemoveItem(itemID)
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	s.carts.Save(cart)

	slog.InfoContext(ctx, "item removed from cart", "cart_id", cartID, "item_id", itemID, "sku", removed.SKU)
	s.publish(ctx, events.New(events.TypeCartItemRemoved, cartID, cart.UserID(), correlation.FromContext(ctx)))
	return cart, nil
}

// ClearCart empties the cart. Called by the placement protocol after a
// first-time order save.
func (s *CartService) ClearCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	removed := cart.ItemCount()
	cart.Clear()
	s.carts.Save(cart)

	slog.InfoContext(ctx, "cart cleared", "cart_id", cartID, "items_removed", removed)
	s.publish(ctx, events.New(events.TypeCartCleared, cartID, cart.UserID(), correlation.FromContext(ctx)))
	return cart, nil
}

// DeleteCart removes the cart aggregate entirely.
func (s *CartService) DeleteCart(ctx context.Context, cartID string) error {
	removed, ok := s.carts.DeleteByID(cartID)
	if !ok {
		return domain.ErrCartNotFound
	}

	slog.InfoContext(ctx, "cart deleted", "cart_id", cartID)
	s.publish(ctx, events.New(events.TypeCartDeleted, cartID, removed.UserID(), correlation.FromContext(ctx)))
	return nil
}

func (s *CartService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "event publish failed", "type", event.Type, "aggregate_id", event.AggregateID, "error", err)
	}
}
