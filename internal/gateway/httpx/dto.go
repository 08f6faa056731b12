package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/order-placement/internal/order/domain"
)

type CreateCartRequest struct {
	UserID string `json:"user_id"`
}

type AddItemRequest struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type PlaceOrderRequest struct {
	CartID          string `json:"cart_id"`
	IdempotencyKey  string `json:"idempotency_key"`
	ShippingAddress string `json:"shipping_address"`
	Notes           string `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CartItemResponse struct {
	ItemID      string          `json:"item_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	AddedAt     time.Time       `json:"added_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CartResponse struct {
	CartID     string             `json:"cart_id"`
	UserID     string             `json:"user_id"`
	Items      []CartItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Version    int64              `json:"version"`
}

type OrderItemResponse struct {
	ItemID      string          `json:"item_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type OrderResponse struct {
	OrderID         string              `json:"order_id"`
	UserID          string              `json:"user_id"`
	CartID          string              `json:"cart_id"`
	IdempotencyKey  string              `json:"idempotency_key"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Tax             decimal.Decimal     `json:"tax"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	Notes           string              `json:"notes,omitempty"`
	Duplicate       bool                `json:"duplicate,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func mapCartToResponse(cart *domain.Cart) CartResponse {
	items := cart.Items()
	itemResponses := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, CartItemResponse{
			ItemID:      item.ItemID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice(),
			AddedAt:     item.AddedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	return CartResponse{
		CartID:     cart.CartID(),
		UserID:     cart.UserID(),
		Items:      itemResponses,
		ItemCount:  cart.ItemCount(),
		TotalPrice: cart.TotalPrice(),
		CreatedAt:  cart.CreatedAt(),
		UpdatedAt:  cart.UpdatedAt(),
		Version:    cart.Version(),
	}
}

func mapOrderToResponse(order *domain.Order, duplicate bool) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ItemID:      item.ItemID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		}
	}
	return OrderResponse{
		OrderID:         order.OrderID,
		UserID:          order.UserID,
		CartID:          order.CartID,
		IdempotencyKey:  order.IdempotencyKey,
		Items:           items,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		Total:           order.Total,
		Status:          string(order.Status),
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		Duplicate:       duplicate,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
