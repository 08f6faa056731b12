package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat rate applied at placement. A stand-in for a
// pluggable pricing policy.
var TaxRate = decimal.RequireFromString("0.10")

// Order is an immutable snapshot built from a cart at placement time.
//
// After construction only Status and UpdatedAt may change, and only by
// building a replacement instance via WithStatus. Items, prices and totals
// are locked at the instant of placement.
type Order struct {
	OrderID         string
	UserID          string
	CartID          string
	IdempotencyKey  string
	Items           []OrderItem
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Status          OrderStatus
	ShippingAddress string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderFromCart builds a PENDING order from a cart snapshot. The caller
// passes cart.Snapshot() so the item list cannot alias future cart
// mutations. Fails with ErrCartEmpty when the cart has no items.
func OrderFromCart(cart *Cart, idempotencyKey, shippingAddress, notes string) (*Order, error) {
	cartItems := cart.Items()
	items := make([]OrderItem, 0, len(cartItems))
	subtotal := decimal.Zero
	for _, ci := range cartItems {
		oi := OrderItemFromCartItem(ci)
		items = append(items, oi)
		subtotal = subtotal.Add(oi.TotalPrice)
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	tax := subtotal.Mul(TaxRate)
	now := time.Now().UTC()
	return &Order{
		OrderID:         uuid.NewString(),
		UserID:          cart.UserID(),
		CartID:          cart.CartID(),
		IdempotencyKey:  idempotencyKey,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           subtotal.Add(tax),
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// WithStatus returns a new order carrying the requested status and a fresh
// UpdatedAt. Every other field, including the item list, is shared
// unchanged; OrderItem values are immutable so sharing the slice is safe.
func (o *Order) WithStatus(status OrderStatus) *Order {
	next := *o
	next.Status = status
	next.UpdatedAt = time.Now().UTC()
	return &next
}

// ItemCount sums quantities across all lines.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
