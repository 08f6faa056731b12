package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a mutable, thread-safe container of items for one user.
//
// Every state-changing operation is individually atomic with respect to the
// item map and the version counter: version increases by exactly 1 per
// mutation and UpdatedAt is refreshed under the same lock. A sequence of
// two calls is NOT atomic as a unit; callers needing read-modify-write
// consistency go through CartStore.UpdateWithVersionCheck instead.
type Cart struct {
	mu        sync.RWMutex
	cartID    string
	userID    string
	items     map[string]CartItem
	createdAt time.Time
	updatedAt time.Time
	version   int64
}

// NewCart creates an empty cart for a user at version 0.
func NewCart(userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		cartID:    uuid.NewString(),
		userID:    userID,
		items:     make(map[string]CartItem),
		createdAt: now,
		updatedAt: now,
	}
}

func (c *Cart) CartID() string { return c.cartID }
func (c *Cart) UserID() string { return c.userID }

func (c *Cart) CreatedAt() time.Time { return c.createdAt }

func (c *Cart) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// Version returns the optimistic-locking counter.
func (c *Cart) Version() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Items returns a copy of the item map. Mutating the returned map has no
// effect on the cart.
func (c *Cart) Items() map[string]CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]CartItem, len(c.items))
	for k, v := range c.items {
		out[k] = v
	}
	return out
}

// Item looks up a single line item by its ID.
func (c *Cart) Item(itemID string) (CartItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[itemID]
	return item, ok
}

// ItemBySKU returns the line item currently carrying the given SKU, if any.
// Used by the service layer to reuse an existing item key so AddItem merges
// repeated additions of the same product.
func (c *Cart) ItemBySKU(sku string) (CartItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.SKU == sku {
			return item, true
		}
	}
	return CartItem{}, false
}

// AddItem inserts an item, merging quantities when the slot already holds
// an item with the same SKU. Returns the item as stored.
func (c *Cart) AddItem(item CartItem) CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[item.ItemID]; ok && existing.SKU == item.SKU {
		item = existing.WithQuantity(existing.Quantity + item.Quantity)
	}
	c.items[item.ItemID] = item
	c.bumpLocked()
	return item
}

// UpdateItemQuantity replaces the item's quantity in place. Returns
// ErrItemNotFound when the key is absent.
func (c *Cart) UpdateItemQuantity(itemID string, quantity int) (CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.items[itemID]
	if !ok {
		return CartItem{}, ErrItemNotFound
	}
	updated := existing.WithQuantity(quantity)
	c.items[itemID] = updated
	c.bumpLocked()
	return updated, nil
}

// RemoveItem removes and returns the item. Absence is not an error and
// does not bump the version.
func (c *Cart) RemoveItem(itemID string) (CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed, ok := c.items[itemID]
	if !ok {
		return CartItem{}, false
	}
	delete(c.items, itemID)
	c.bumpLocked()
	return removed, true
}

// Clear empties the item map unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]CartItem)
	c.bumpLocked()
}

// TotalPrice sums the line totals over the current map snapshot.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// ItemCount sums quantities, not map keys.
func (c *Cart) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items) == 0
}

// Snapshot returns an independent copy of the cart: same scalar fields,
// separate item map. Mutating either cart afterwards does not affect the
// other. Used to build an immutable Order at placement time.
func (c *Cart) Snapshot() *Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make(map[string]CartItem, len(c.items))
	for k, v := range c.items {
		items[k] = v
	}
	return &Cart{
		cartID:    c.cartID,
		userID:    c.userID,
		items:     items,
		createdAt: c.createdAt,
		updatedAt: c.updatedAt,
		version:   c.version,
	}
}

// bumpLocked increments the version and refreshes the timestamp. Callers
// must hold the write lock.
func (c *Cart) bumpLocked() {
	c.version++
	c.updatedAt = time.Now().UTC()
}
