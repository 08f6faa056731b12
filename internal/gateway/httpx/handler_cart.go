package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateCart creates an empty cart for a user. A user's previous cart, if
// any, is superseded as their current cart but not deleted.
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req CreateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.UserID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	slog.InfoContext(r.Context(), "creating cart", "user_id", req.UserID)
	cart := h.cartSvc.CreateCart(r.Context(), req.UserID)
	writeJSON(w, http.StatusCreated, mapCartToResponse(cart))
}

// GetCart retrieves a cart by its ID.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartSvc.GetCart(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// GetCartByUser retrieves the user's current cart.
func (h *Handler) GetCartByUser(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartSvc.GetCartByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// AddItem adds a line item to the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.SKU == "" || req.ProductName == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "sku and product_name are required")
		return
	}
	if req.Quantity < 1 {
		writeError(w, r, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}
	if req.UnitPrice.IsNegative() {
		writeError(w, r, http.StatusBadRequest, "invalid_price", "unit_price cannot be negative")
		return
	}

	cart, err := h.cartSvc.AddItem(r.Context(), chi.URLParam(r, "cartID"),
		req.SKU, req.ProductName, req.Quantity, req.UnitPrice)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// UpdateItem replaces an item's quantity.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity < 1 {
		writeError(w, r, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	cart, err := h.cartSvc.UpdateItemQuantity(r.Context(),
		chi.URLParam(r, "cartID"), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// RemoveItem deletes a single item from the cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartSvc.RemoveItem(r.Context(),
		chi.URLParam(r, "cartID"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartSvc.ClearCart(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartToResponse(cart))
}

// DeleteCart removes the cart aggregate entirely.
func (h *Handler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cartSvc.DeleteCart(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
