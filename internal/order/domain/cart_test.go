package domain

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewCart(t *testing.T) {
	cart := NewCart("u1")

	assert.NotEmpty(t, cart.CartID())
	assert.Equal(t, "u1", cart.UserID())
	assert.True(t, cart.IsEmpty())
	assert.EqualValues(t, 0, cart.Version())
}

func TestCart_AddItem(t *testing.T) {
	cart := NewCart("u1")
	item := NewCartItem("SKU-A", "Widget", 2, price("10.00"))

	added := cart.AddItem(item)

	assert.Equal(t, item.ItemID, added.ItemID)
	assert.Equal(t, 2, cart.ItemCount())
	assert.True(t, cart.TotalPrice().Equal(price("20.00")))
	assert.EqualValues(t, 1, cart.Version())
}

func TestCart_AddItem_MergesSameSKU(t *testing.T) {
	cart := NewCart("u1")
	first := cart.AddItem(NewCartItem("SKU-A", "Widget", 2, price("10.00")))

	second := NewCartItem("SKU-A", "Widget", 1, price("10.00"))
	second.ItemID = first.ItemID
	merged := cart.AddItem(second)

	assert.Equal(t, 3, merged.Quantity)
	assert.Len(t, cart.Items(), 1)
	assert.Equal(t, 3, cart.ItemCount())
	assert.True(t, cart.TotalPrice().Equal(price("30.00")))
	assert.EqualValues(t, 2, cart.Version())
}

func TestCart_AddItem_DifferentSKUSameSlotReplaces(t *testing.T) {
	cart := NewCart("u1")
	first := cart.AddItem(NewCartItem("SKU-A", "Widget", 2, price("10.00")))

	replacement := NewCartItem("SKU-B", "Gadget", 1, price("5.00"))
	replacement.ItemID = first.ItemID
	stored := cart.AddItem(replacement)

	assert.Equal(t, "SKU-B", stored.SKU)
	assert.Equal(t, 1, stored.Quantity)
	assert.Len(t, cart.Items(), 1)
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	cart := NewCart("u1")
	added := cart.AddItem(NewCartItem("SKU-A", "Widget", 2, price("10.00")))

	updated, err := cart.UpdateItemQuantity(added.ItemID, 5)

	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.EqualValues(t, 2, cart.Version())
}

func TestCart_UpdateItemQuantity_NotFound(t *testing.T) {
	cart := NewCart("u1")

	_, err := cart.UpdateItemQuantity("missing", 5)

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.EqualValues(t, 0, cart.Version())
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart("u1")
	added := cart.AddItem(NewCartItem("SKU-A", "Widget", 2, price("10.00")))

	removed, ok := cart.RemoveItem(added.ItemID)

	assert.True(t, ok)
	assert.Equal(t, added.ItemID, removed.ItemID)
	assert.True(t, cart.IsEmpty())
	assert.EqualValues(t, 2, cart.Version())
}

func TestCart_RemoveItem_AbsentIsNoOp(t *testing.T) {
	cart := NewCart("u1")
	cart.AddItem(NewCartItem("SKU-A", "Widget", 2, price("10.00")))
	before := cart.Version()

	_, ok := cart.RemoveItem("missing")

	assert.False(t, ok)
	assert.Equal(t, before, cart.Version(), "no-op removal must not bump the version")
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart("u1")
	cart.AddItem(NewCartItem("SKU-A", "Widget", 2, price("10.00")))
	cart.AddItem(NewCartItem("SKU-B", "Gadget", 1, price("5.00")))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.ItemCount())
	assert.True(t, cart.TotalPrice().IsZero())
	assert.EqualValues(t, 3, cart.Version())
}

func TestCart_Snapshot_IsIndependent(t *testing.T) {
	cart := NewCart("u1")
	added := cart.AddItem(NewCartItem("SKU-A", "Widget", 2, price("10.00")))

	snap := cart.Snapshot()
	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.False(t, snap.IsEmpty(), "snapshot must not alias later cart mutations")
	assert.Equal(t, 2, snap.ItemCount())
	assert.EqualValues(t, 1, snap.Version())

	// The other direction holds too.
	snap.RemoveItem(added.ItemID)
	assert.True(t, cart.IsEmpty())
}

func TestCart_VersionMonotonicity_Concurrent(t *testing.T) {
	cart := NewCart("u1")
	const goroutines = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			cart.AddItem(NewCartItem("SKU-A", "Widget", 1, price("10.00")))
		}()
	}
	wg.Wait()

	// Each add is a distinct mutation: exactly one version bump per call.
	assert.EqualValues(t, goroutines, cart.Version())
	assert.Equal(t, goroutines, len(cart.Items()))
}

func TestCartItem_TotalPrice(t *testing.T) {
	item := NewCartItem("SKU-A", "Widget", 3, price("10.50"))

	assert.True(t, item.TotalPrice().Equal(price("31.50")))
}

func TestCartItem_WithQuantity_DoesNotMutateReceiver(t *testing.T) {
	item := NewCartItem("SKU-A", "Widget", 3, price("10.50"))

	updated := item.WithQuantity(7)

	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 7, updated.Quantity)
	assert.Equal(t, item.ItemID, updated.ItemID)
	assert.False(t, updated.UpdatedAt.Before(item.UpdatedAt))
}
