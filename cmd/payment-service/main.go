package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/chaos-orders/internal/payment-service/app"
	paymenthttp "github.com/jcmexdev/chaos-orders/internal/payment-service/infra/httpx"
	"github.com/jcmexdev/chaos-orders/internal/pkg/config"
	"github.com/jcmexdev/chaos-orders/internal/pkg/httpx"
	"github.com/jcmexdev/chaos-orders/internal/pkg/telemetry"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("payment service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.ServicePayment)
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

	processor := app.New(app.Config{InjectLatency: cfg.InjectLatency},
		app.WithTracer(tp.Tracer(cfg.ServiceName)),
		app.WithLogger(logger),
	)

	router := paymenthttp.NewRouter(cfg.ServiceName, paymenthttp.NewHandler(processor), logger)
	srv := httpx.NewServer(cfg.Addr(), httpx.Instrument(router, cfg.ServiceName))

	logger.Info("payment service starting", "inject_latency", processor.InjectLatency())
	return httpx.Serve(ctx, srv, logger)
}
