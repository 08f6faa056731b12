package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/order-placement/internal/gateway/httpx/middlewares"
	"github.com/jcmexdev/order-placement/internal/pkg/metrics"
)

func NewRouter(handler *Handler, m *metrics.ServerMetrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachCorrelationID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	instrument := func(name string, h http.HandlerFunc) http.HandlerFunc {
		if m == nil {
			return h
		}
		return m.Instrument(name, h)
	}

	r.Route("/cart", func(r chi.Router) {
		r.Post("/", instrument("create_cart", handler.CreateCart))
		r.Get("/{cartID}", instrument("get_cart", handler.GetCart))
		r.Get("/user/{userID}", instrument("get_cart_by_user", handler.GetCartByUser))
		r.Delete("/{cartID}", instrument("delete_cart", handler.DeleteCart))
		r.Post("/{cartID}/items", instrument("add_item", handler.AddItem))
		r.Put("/{cartID}/items/{itemID}", instrument("update_item", handler.UpdateItem))
		r.Delete("/{cartID}/items/{itemID}", instrument("remove_item", handler.RemoveItem))
		r.Delete("/{cartID}/items", instrument("clear_cart", handler.ClearCart))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/place", instrument("place_order", handler.PlaceOrder))
		r.Get("/", instrument("list_orders", handler.ListOrders))
		r.Get("/{orderID}", instrument("get_order", handler.GetOrder))
		r.Post("/{orderID}/confirm", instrument("confirm_order", handler.ConfirmOrder))
		r.Post("/{orderID}/cancel", instrument("cancel_order", handler.CancelOrder))
		r.Put("/{orderID}/status", instrument("update_order_status", handler.UpdateOrderStatus))
	})

	r.Get("/health", handler.Health)
	r.Get("/stats", handler.Stats)
	r.Handle("/metrics", metrics.Handler())

	return r
}
