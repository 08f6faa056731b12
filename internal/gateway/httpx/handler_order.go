package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/order-placement/internal/order/domain"
)

const orderCacheTTL = 30 * time.Second

// PlaceOrder converts a cart into an order. Replays with a known
// idempotency key return the previously created order with a duplicate
// flag and a 200 instead of a 201.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CartID == "" || req.IdempotencyKey == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "cart_id and idempotency_key are required")
		return
	}
	if req.ShippingAddress == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "shipping_address is required")
		return
	}

	result, err := h.orderSvc.PlaceOrder(r.Context(), req.CartID, req.IdempotencyKey, req.ShippingAddress, req.Notes)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, mapOrderToResponse(result.Order, result.Duplicate))
}

// GetOrder retrieves a single order, trying the response cache first.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	if h.cache != nil {
		key := h.cache.GenerateKey("get_order", orderID)
		if cached, err := h.cache.Get(r.Context(), key); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		}
	}

	order, err := h.orderSvc.GetOrder(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := mapOrderToResponse(order, false)
	if h.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			key := h.cache.GenerateKey("get_order", orderID)
			if err := h.cache.Set(r.Context(), key, data, orderCacheTTL); err != nil {
				slog.WarnContext(r.Context(), "order cache set failed", "order_id", orderID, "error", err)
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListOrders lists orders filtered by user_id or status.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var orders []*domain.Order
	switch {
	case r.URL.Query().Get("user_id") != "":
		orders = h.orderSvc.GetOrdersByUser(r.Context(), r.URL.Query().Get("user_id"))
	case r.URL.Query().Get("status") != "":
		status, err := domain.ParseOrderStatus(r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
			return
		}
		orders = h.orderSvc.GetOrdersByStatus(r.Context(), status)
	default:
		writeError(w, r, http.StatusBadRequest, "invalid_request", "user_id or status query parameter is required")
		return
	}

	out := make([]OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = mapOrderToResponse(order, false)
	}
	writeJSON(w, http.StatusOK, out)
}

// ConfirmOrder transitions an order to CONFIRMED.
func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	h.applyStatusChange(w, r, domain.StatusConfirmed)
}

// CancelOrder cancels a still-cancellable order.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.applyStatusChange(w, r, domain.StatusCancelled)
}

// UpdateOrderStatus applies an arbitrary requested transition.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}
	h.applyStatusChange(w, r, status)
}

func (h *Handler) applyStatusChange(w http.ResponseWriter, r *http.Request, status domain.OrderStatus) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orderSvc.UpdateOrderStatus(r.Context(), orderID, status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// Drop the stale cached read, if any.
	if h.cache != nil {
		key := h.cache.GenerateKey("get_order", orderID)
		if err := h.cache.Delete(r.Context(), key); err != nil {
			slog.WarnContext(r.Context(), "order cache invalidation failed", "order_id", orderID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(order, false))
}
