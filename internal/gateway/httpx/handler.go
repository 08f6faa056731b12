// Package httpx is the HTTP surface over the order-placement core. It does
// request shaping and input validation only; every invariant lives in the
// domain and store layers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jcmexdev/order-placement/internal/order/app"
	"github.com/jcmexdev/order-placement/internal/order/domain"
	"github.com/jcmexdev/order-placement/internal/order/store"
	"github.com/jcmexdev/order-placement/internal/pkg/cache"
	"github.com/jcmexdev/order-placement/internal/pkg/correlation"
)

// Handler handles incoming HTTP requests for carts and orders.
type Handler struct {
	cartSvc    *app.CartService
	orderSvc   *app.OrderService
	cartStore  *store.CartStore
	orderStore *store.OrderStore
	cache      cache.Cache // nil-safe: caching skipped if nil
}

// NewHandler initializes the handler with its domain services. The stores
// are only consulted for the stats endpoint. cache may be nil, in which
// case order reads always hit the store.
func NewHandler(cartSvc *app.CartService, orderSvc *app.OrderService,
	cartStore *store.CartStore, orderStore *store.OrderStore, c cache.Cache) *Handler {
	return &Handler{
		cartSvc:    cartSvc,
		orderSvc:   orderSvc,
		cartStore:  cartStore,
		orderStore: orderStore,
		cache:      c,
	}
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "UP",
	})
}

// Stats exposes store counts for dashboards and smoke tests.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"carts":  h.cartStore.Count(),
		"orders": h.orderStore.Count(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:         code,
		Message:       msg,
		CorrelationID: correlation.FromContext(r.Context()),
	})
}

// writeDomainError maps the core's error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		versionConflict *domain.VersionConflictError
		invalidTrans    *domain.InvalidTransitionError
	)
	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		writeError(w, r, http.StatusNotFound, "cart_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, r, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, r, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, domain.ErrCartEmpty):
		writeError(w, r, http.StatusUnprocessableEntity, "cart_empty", err.Error())
	case errors.As(err, &versionConflict):
		writeError(w, r, http.StatusConflict, "version_conflict", err.Error())
	case errors.As(err, &invalidTrans):
		writeError(w, r, http.StatusConflict, "invalid_transition", err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
