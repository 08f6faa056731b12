// Command loadgen drives a running order-api instance with synthetic
// traffic: each worker periodically creates a cart for a random user, adds
// a few catalog items, and places an order with a fresh idempotency key.
// Useful for populating dashboards and smoke-testing the placement path.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/order-placement/internal/pkg/telemetry"
)

type product struct {
	sku   string
	name  string
	price string
}

var catalog = []product{
	{"LAPTOP-001", "MacBook Pro 16", "2499.00"},
	{"PHONE-001", "iPhone 15 Pro", "1199.00"},
	{"TABLET-001", "iPad Pro 12.9", "1099.00"},
	{"WATCH-001", "Apple Watch Ultra", "799.00"},
	{"HEADPHONES-001", "AirPods Pro", "249.00"},
	{"KEYBOARD-001", "Magic Keyboard", "299.00"},
	{"MOUSE-001", "Magic Mouse", "99.00"},
	{"MONITOR-001", "Studio Display", "1599.00"},
	{"CASE-001", "Laptop Case", "79.00"},
	{"CHARGER-001", "MagSafe Charger", "39.00"},
}

var addresses = []string{
	"123 Tech Park, Suite 100, San Francisco, CA 94105",
	"456 Innovation Drive, Austin, TX 78701",
	"789 Startup Lane, Seattle, WA 98101",
	"321 Digital Avenue, New York, NY 10001",
	"654 Cloud Street, Boston, MA 02101",
}

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	baseURL := getEnv("ORDER_API_URL", "http://localhost:8080")
	interval := mustDuration(getEnv("LOADGEN_INTERVAL", "2s"))
	workers := mustInt(getEnv("LOADGEN_WORKERS", "1"))

	slog.Info("loadgen starting", "base_url", baseURL, "interval", interval, "workers", workers)

	client := &http.Client{Timeout: 10 * time.Second}
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := placeRandomOrder(ctx, client, baseURL); err != nil {
						slog.Warn("order placement round failed", "error", err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("loadgen stopped", "error", err)
		os.Exit(1)
	}
}

// placeRandomOrder runs one full round: create cart, add 1-3 random
// items, place the order.
func placeRandomOrder(ctx context.Context, client *http.Client, baseURL string) error {
	userID := fmt.Sprintf("user-%03d", rand.Intn(100))

	var cart struct {
		CartID string `json:"cart_id"`
	}
	if err := postJSON(ctx, client, baseURL+"/cart", map[string]any{"user_id": userID}, &cart); err != nil {
		return fmt.Errorf("create cart: %w", err)
	}

	for i := 0; i < 1+rand.Intn(3); i++ {
		p := catalog[rand.Intn(len(catalog))]
		body := map[string]any{
			"sku":          p.sku,
			"product_name": p.name,
			"quantity":     1 + rand.Intn(3),
			"unit_price":   p.price,
		}
		if err := postJSON(ctx, client, baseURL+"/cart/"+cart.CartID+"/items", body, nil); err != nil {
			return fmt.Errorf("add item: %w", err)
		}
	}

	var order struct {
		OrderID string `json:"order_id"`
		Total   string `json:"total"`
	}
	placeBody := map[string]any{
		"cart_id":          cart.CartID,
		"idempotency_key":  uuid.NewString(),
		"shipping_address": addresses[rand.Intn(len(addresses))],
	}
	if err := postJSON(ctx, client, baseURL+"/orders/place", placeBody, &order); err != nil {
		return fmt.Errorf("place order: %w", err)
	}

	slog.Info("order placed", "order_id", order.OrderID, "user_id", userID, "total", order.Total)
	return nil
}

func postJSON(ctx context.Context, client *http.Client, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %s", url, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		slog.Error("invalid duration", "value", s, "error", err)
		os.Exit(1)
	}
	return d
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		slog.Error("invalid worker count", "value", s)
		os.Exit(1)
	}
	return n
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
