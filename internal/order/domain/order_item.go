package domain

import "github.com/shopspring/decimal"

// OrderItem is a fully immutable snapshot of a cart line at placement time.
// Unlike CartItem it captures the total price eagerly: once an order
// exists, later catalog or cart changes can never reach it.
type OrderItem struct {
	ItemID      string
	SKU         string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// OrderItemFromCartItem freezes the current state of a cart line.
func OrderItemFromCartItem(item CartItem) OrderItem {
	return OrderItem{
		ItemID:      item.ItemID,
		SKU:         item.SKU,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice(),
	}
}
