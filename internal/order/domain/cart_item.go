package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is an immutable line-item snapshot inside a cart. Quantity
// changes never mutate an existing value; they produce a replacement via
// WithQuantity.
type CartItem struct {
	ItemID      string
	SKU         string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	AddedAt     time.Time
	UpdatedAt   time.Time
}

// NewCartItem builds a line item with a generated ID. Callers are expected
// to have validated quantity >= 1 and a non-negative price at the edge.
func NewCartItem(sku, productName string, quantity int, unitPrice decimal.Decimal) CartItem {
	now := time.Now().UTC()
	return CartItem{
		ItemID:      uuid.NewString(),
		SKU:         sku,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		AddedAt:     now,
		UpdatedAt:   now,
	}
}

// TotalPrice is unitPrice * quantity, computed on demand and never stored.
func (i CartItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// WithQuantity returns a copy carrying the new quantity and a fresh
// UpdatedAt. The receiver is left untouched.
func (i CartItem) WithQuantity(quantity int) CartItem {
	i.Quantity = quantity
	i.UpdatedAt = time.Now().UTC()
	return i
}
