package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/order-placement/internal/order/app"
	"github.com/jcmexdev/order-placement/internal/order/store"
	"github.com/jcmexdev/order-placement/internal/pkg/correlation"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	carts := store.NewCartStore()
	orders := store.NewOrderStore()
	cartSvc := app.NewCartService(carts, nil)
	orderSvc := app.NewOrderService(orders, carts, cartSvc, nil)
	handler := NewHandler(cartSvc, orderSvc, carts, orders, nil)

	srv := httptest.NewServer(NewRouter(handler, nil))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func createCartWithItem(t *testing.T, srv *httptest.Server) CartResponse {
	t.Helper()
	var cart CartResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/cart", CreateCartRequest{UserID: "u1"}, &cart)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/cart/"+cart.CartID+"/items", map[string]any{
		"sku": "A", "product_name": "Product A", "quantity": 2, "unit_price": "10.00",
	}, &cart)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return cart
}

func TestCartEndpoints(t *testing.T) {
	srv := newTestServer(t)

	cart := createCartWithItem(t, srv)
	assert.Equal(t, "u1", cart.UserID)
	assert.Equal(t, 2, cart.ItemCount)
	assert.EqualValues(t, 1, cart.Version)
	require.Len(t, cart.Items, 1)

	var fetched CartResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/cart/"+cart.CartID, nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, cart.CartID, fetched.CartID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/cart/user/u1", nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, cart.CartID, fetched.CartID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/cart/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	itemID := cart.Items[0].ItemID
	resp = doJSON(t, http.MethodPut, srv.URL+"/cart/"+cart.CartID+"/items/"+itemID, UpdateItemRequest{Quantity: 5}, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, fetched.ItemCount)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/cart/"+cart.CartID+"/items/"+itemID, nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, fetched.ItemCount)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/cart/"+cart.CartID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCartValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/cart", CreateCartRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	cart := createCartWithItem(t, srv)

	var errResp ErrorResponse
	resp = doJSON(t, http.MethodPost, srv.URL+"/cart/"+cart.CartID+"/items", map[string]any{
		"sku": "A", "product_name": "Product A", "quantity": 0, "unit_price": "10.00",
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_quantity", errResp.Error)

	resp = doJSON(t, http.MethodPost, srv.URL+"/cart/"+cart.CartID+"/items", map[string]any{
		"sku": "A", "product_name": "Product A", "quantity": 1, "unit_price": "-1.00",
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_price", errResp.Error)
}

func TestPlaceOrderEndpoint(t *testing.T) {
	srv := newTestServer(t)
	cart := createCartWithItem(t, srv)

	placeReq := PlaceOrderRequest{
		CartID:          cart.CartID,
		IdempotencyKey:  "k1",
		ShippingAddress: "1 Main St",
	}

	var order OrderResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/orders/place", placeReq, &order)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PENDING", order.Status)
	assert.False(t, order.Duplicate)
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.Tax)))

	// Same key replays as 200 + duplicate, not a second order.
	var replay OrderResponse
	resp = doJSON(t, http.MethodPost, srv.URL+"/orders/place", placeReq, &replay)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, replay.Duplicate)
	assert.Equal(t, order.OrderID, replay.OrderID)

	// The source cart was cleared, so the same cart cannot place again
	// under a new key.
	placeReq.IdempotencyKey = "k2"
	resp = doJSON(t, http.MethodPost, srv.URL+"/orders/place", placeReq, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestOrderLifecycleEndpoints(t *testing.T) {
	srv := newTestServer(t)
	cart := createCartWithItem(t, srv)

	var order OrderResponse
	doJSON(t, http.MethodPost, srv.URL+"/orders/place", PlaceOrderRequest{
		CartID: cart.CartID, IdempotencyKey: "k1", ShippingAddress: "1 Main St",
	}, &order)

	var updated OrderResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/orders/"+order.OrderID+"/confirm", nil, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CONFIRMED", updated.Status)

	resp = doJSON(t, http.MethodPut, srv.URL+"/orders/"+order.OrderID+"/status", UpdateStatusRequest{Status: "PROCESSING"}, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "PROCESSING", updated.Status)

	// PROCESSING is past the cancellable window.
	var errResp ErrorResponse
	resp = doJSON(t, http.MethodPost, srv.URL+"/orders/"+order.OrderID+"/cancel", nil, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "invalid_transition", errResp.Error)

	resp = doJSON(t, http.MethodPut, srv.URL+"/orders/"+order.OrderID+"/status", UpdateStatusRequest{Status: "TELEPORTED"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListOrdersEndpoint(t *testing.T) {
	srv := newTestServer(t)
	cart := createCartWithItem(t, srv)
	var order OrderResponse
	doJSON(t, http.MethodPost, srv.URL+"/orders/place", PlaceOrderRequest{
		CartID: cart.CartID, IdempotencyKey: "k1", ShippingAddress: "1 Main St",
	}, &order)

	var orders []OrderResponse
	resp := doJSON(t, http.MethodGet, srv.URL+"/orders/?user_id=u1", nil, &orders)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, orders, 1)
	assert.Equal(t, order.OrderID, orders[0].OrderID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/orders/?status=PENDING", nil, &orders)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, orders, 1)

	resp = doJSON(t, http.MethodGet, srv.URL+"/orders/?status=NOPE", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/orders/", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCorrelationIDEcho(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(correlation.Header, "corr-1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "corr-1", resp.Header.Get(correlation.Header))

	// A missing header gets a generated ID.
	resp2, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(correlation.Header))
}

func TestHealthAndStats(t *testing.T) {
	srv := newTestServer(t)
	createCartWithItem(t, srv)

	var health map[string]any
	resp := doJSON(t, http.MethodGet, srv.URL+"/health", nil, &health)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UP", health["status"])

	var stats map[string]float64
	resp = doJSON(t, http.MethodGet, srv.URL+"/stats", nil, &stats)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, stats["carts"])
	assert.EqualValues(t, 0, stats["orders"])
}
