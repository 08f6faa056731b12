package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/order-placement/internal/gateway/httpx"
	"github.com/jcmexdev/order-placement/internal/order/app"
	"github.com/jcmexdev/order-placement/internal/order/store"
	"github.com/jcmexdev/order-placement/internal/pkg/cache"
	"github.com/jcmexdev/order-placement/internal/pkg/events"
	"github.com/jcmexdev/order-placement/internal/pkg/metrics"
	"github.com/jcmexdev/order-placement/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "order-api"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	var publisher events.Publisher
	if kp := events.NewKafkaPublisher(os.Getenv("KAFKA_BROKERS"), getEnv("KAFKA_TOPIC", "order-placement.events")); kp != nil {
		defer kp.Close()
		publisher = kp
		slog.Info("kafka event publishing enabled", "topic", getEnv("KAFKA_TOPIC", "order-placement.events"))
	} else {
		slog.Info("kafka event publishing disabled, set KAFKA_BROKERS to enable")
	}

	var orderCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		orderCache = cache.NewRedisCache(redisAddr, "order-api")
		slog.Info("redis order cache enabled", "addr", redisAddr)
	}

	cartStore := store.NewCartStore()
	orderStore := store.NewOrderStore()
	cartSvc := app.NewCartService(cartStore, publisher)
	orderSvc := app.NewOrderService(orderStore, cartStore, cartSvc, publisher)

	handler := httpx.NewHandler(cartSvc, orderSvc, cartStore, orderStore, orderCache)
	m := metrics.NewServerMetrics("order_api")

	addr := ":" + getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    addr,
		Handler: httpx.NewRouter(handler, m),
	}

	go func() {
		slog.Info("order API running", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to serve", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
