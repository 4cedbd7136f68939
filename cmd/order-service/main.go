package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/chaos-orders/internal/coordinator/steplog/sqlite"
	"github.com/jcmexdev/chaos-orders/internal/order-service/adapters/httpclient"
	"github.com/jcmexdev/chaos-orders/internal/order-service/app"
	orderhttp "github.com/jcmexdev/chaos-orders/internal/order-service/infra/httpx"
	"github.com/jcmexdev/chaos-orders/internal/pkg/config"
	"github.com/jcmexdev/chaos-orders/internal/pkg/httpx"
	"github.com/jcmexdev/chaos-orders/internal/pkg/tally"
	"github.com/jcmexdev/chaos-orders/internal/pkg/telemetry"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("order service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.ServiceOrder)
	if err != nil {
		return err
	}
	logger := telemetry.InitLogger(cfg.ServiceName, cfg.LogLevel)

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

	appOpts := []app.Option{
		app.WithTracer(tp.Tracer(cfg.ServiceName)),
		app.WithLogger(logger),
	}
	var handlerOpts []orderhttp.HandlerOption

	if cfg.StepLogPath != "" {
		repo, err := sqlite.Open(cfg.StepLogPath)
		if err != nil {
			return fmt.Errorf("failed to open step log: %w", err)
		}
		defer repo.Close()
		appOpts = append(appOpts, app.WithRecorder(repo))
		handlerOpts = append(handlerOpts, orderhttp.WithStepLog(repo))
		logger.Info("step log enabled", "path", cfg.StepLogPath)
	}

	if cfg.RedisAddr != "" {
		client := tally.NewRedisClient(cfg.RedisAddr)
		defer client.Close()
		counter := tally.NewRedisCounter(client, cfg.ServiceName)
		appOpts = append(appOpts, app.WithCounter(counter))
		handlerOpts = append(handlerOpts, orderhttp.WithStats(counter))
		logger.Info("outcome tally enabled", "redis_addr", cfg.RedisAddr)
	}

	client := httpclient.NewHTTPClient()
	orchestrator := app.New(
		httpclient.NewInventoryClient(client, cfg.InventoryURL, httpclient.InventoryTimeout),
		httpclient.NewPaymentClient(client, cfg.PaymentURL, httpclient.PaymentTimeout),
		appOpts...,
	)

	router := orderhttp.NewRouter(cfg.ServiceName, orderhttp.NewHandler(orchestrator, logger, handlerOpts...), logger)
	srv := httpx.NewServer(cfg.Addr(), httpx.Instrument(router, cfg.ServiceName))

	logger.Info("order service starting",
		"inventory_url", cfg.InventoryURL,
		"payment_url", cfg.PaymentURL,
	)
	return httpx.Serve(ctx, srv, logger)
}
