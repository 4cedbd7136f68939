package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryservice "github.com/jcmexdev/chaos-orders/internal/inventory-service"
	inventoryhttp "github.com/jcmexdev/chaos-orders/internal/inventory-service/infra/httpx"
	"github.com/jcmexdev/chaos-orders/internal/pkg/config"
	"github.com/jcmexdev/chaos-orders/internal/pkg/httpx"
	"github.com/jcmexdev/chaos-orders/internal/pkg/telemetry"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("inventory service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.ServiceInventory)
	if err != nil {
		return err
	}
	logger := telemetry.InitLogger(cfg.ServiceName, cfg.LogLevel)

	stock, err := config.ParseStock(cfg.InventoryStock)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerOptions{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.OTLPEndpoint,
		Environment:    cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", "error", err)
		}
	}()

	checker := inventoryservice.New(inventoryservice.Config{
		Stock:     stock,
		RejectAll: cfg.InventoryRejectAll,
	},
		inventoryservice.WithTracer(tp.Tracer(cfg.ServiceName)),
		inventoryservice.WithLogger(logger),
	)

	router := inventoryhttp.NewRouter(cfg.ServiceName, inventoryhttp.NewHandler(checker), logger)
	srv := httpx.NewServer(cfg.Addr(), httpx.Instrument(router, cfg.ServiceName))

	logger.Info("inventory service starting",
		"stock_items", len(stock),
		"reject_all", cfg.InventoryRejectAll,
	)
	return httpx.Serve(ctx, srv, logger)
}
