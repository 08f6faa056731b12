package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartWithItems(t *testing.T) *Cart {
	t.Helper()
	cart := NewCart("u1")
	cart.AddItem(NewCartItem("SKU-A", "Widget", 2, price("10.00")))
	cart.AddItem(NewCartItem("SKU-B", "Gadget", 1, price("5.00")))
	return cart
}

func TestOrderFromCart(t *testing.T) {
	cart := cartWithItems(t)

	order, err := OrderFromCart(cart.Snapshot(), "key-1", "1 Main St", "leave at door")

	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, cart.CartID(), order.CartID)
	assert.Equal(t, "key-1", order.IdempotencyKey)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 3, order.ItemCount())
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, "1 Main St", order.ShippingAddress)
	assert.Equal(t, "leave at door", order.Notes)

	// subtotal 25.00, 10% tax, total 27.50
	assert.True(t, order.Subtotal.Equal(price("25.00")), "subtotal was %s", order.Subtotal)
	assert.True(t, order.Tax.Equal(price("2.50")), "tax was %s", order.Tax)
	assert.True(t, order.Total.Equal(price("27.50")), "total was %s", order.Total)
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.Tax)))
}

func TestOrderFromCart_EmptyCart(t *testing.T) {
	cart := NewCart("u1")

	_, err := OrderFromCart(cart.Snapshot(), "key-1", "1 Main St", "")

	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestOrderFromCart_PriceLock(t *testing.T) {
	cart := NewCart("u1")
	added := cart.AddItem(NewCartItem("SKU-A", "Widget", 2, price("10.00")))

	order, err := OrderFromCart(cart.Snapshot(), "key-1", "1 Main St", "")
	require.NoError(t, err)

	// Later cart mutations must not reach the placed order.
	_, err = cart.UpdateItemQuantity(added.ItemID, 99)
	require.NoError(t, err)
	cart.AddItem(NewCartItem("SKU-A", "Widget", 1, price("999.00")))

	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Items[0].UnitPrice.Equal(price("10.00")))
	assert.True(t, order.Total.Equal(price("22.00")))
}

func TestOrder_WithStatus(t *testing.T) {
	order, err := OrderFromCart(cartWithItems(t).Snapshot(), "key-1", "1 Main St", "")
	require.NoError(t, err)

	confirmed := order.WithStatus(StatusConfirmed)

	assert.Equal(t, StatusPending, order.Status, "original instance must be untouched")
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Equal(t, order.OrderID, confirmed.OrderID)
	assert.Equal(t, order.CreatedAt, confirmed.CreatedAt)
	assert.True(t, confirmed.Total.Equal(order.Total))
	assert.False(t, confirmed.UpdatedAt.Before(order.UpdatedAt))
}

func TestOrderItemFromCartItem(t *testing.T) {
	item := NewCartItem("SKU-A", "Widget", 4, price("2.25"))

	oi := OrderItemFromCartItem(item)

	assert.Equal(t, item.ItemID, oi.ItemID)
	assert.Equal(t, 4, oi.Quantity)
	assert.True(t, oi.TotalPrice.Equal(price("9.00")))
}
