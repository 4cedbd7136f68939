// Package inventoryservice is a stand-in for the inventory collaborator. It
// answers stock checks from a fixed table and never mutates it.
package inventoryservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/chaos-orders/internal/inventory-service/domain"
	"github.com/jcmexdev/chaos-orders/internal/pkg/chaos"
)

const (
	DefaultDelayMin = 50 * time.Millisecond
	DefaultDelayMax = 200 * time.Millisecond
)

// Config is fixed at start-up. A nil Stock accepts every item; RejectAll
// refuses every check.
type Config struct {
	Stock     map[string]int
	RejectAll bool

	DelayMin time.Duration
	DelayMax time.Duration
	Rand     chaos.Rand
	Sleep    chaos.SleepFunc
}

type Checker struct {
	cfg    Config
	tracer trace.Tracer
	logger *slog.Logger
}

type Option func(*Checker)

func WithTracer(t trace.Tracer) Option {
	return func(c *Checker) { c.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

func New(cfg Config, opts ...Option) *Checker {
	if cfg.DelayMin == 0 && cfg.DelayMax == 0 {
		cfg.DelayMin, cfg.DelayMax = DefaultDelayMin, DefaultDelayMax
	}
	if cfg.Rand == nil {
		cfg.Rand = chaos.DefaultRand
	}
	if cfg.Sleep == nil {
		cfg.Sleep = chaos.SleepOrDone
	}

	c := &Checker{
		cfg:    cfg,
		tracer: otel.Tracer("github.com/jcmexdev/chaos-orders/internal/inventory-service"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check answers whether every item of req is available. It fails only when
// ctx ends during the simulated lookup.
func (c *Checker) Check(ctx context.Context, req *domain.Check) (domain.Result, error) {
	ctx, span := c.tracer.Start(ctx, "check-stock", trace.WithAttributes(
		attribute.String("order.id", req.OrderID),
		attribute.Int("inventory.item_count", len(req.Items)),
	))
	defer span.End()

	logger := c.logger.With("order_id", req.OrderID, "request_id", req.RequestID)
	logger.InfoContext(ctx, "checking inventory", "item_count", len(req.Items))

	delay := chaos.Uniform(c.cfg.Rand, c.cfg.DelayMin, c.cfg.DelayMax)
	if err := c.cfg.Sleep(ctx, delay); err != nil {
		span.RecordError(err)
		return domain.Result{}, fmt.Errorf("inventory check %s: %w", req.OrderID, err)
	}

	res := c.evaluate(req.Items)
	span.SetAttributes(attribute.Bool("inventory.in_stock", res.InStock))

	if !res.InStock {
		logger.WarnContext(ctx, "inventory check rejected", "reason", res.Message, "delay_ms", delay.Milliseconds())
		return res, nil
	}
	logger.InfoContext(ctx, "inventory check passed", "delay_ms", delay.Milliseconds())
	return res, nil
}

func (c *Checker) evaluate(items []*domain.StockItem) domain.Result {
	if c.cfg.RejectAll {
		return domain.Result{Message: "Inventory is rejecting all checks"}
	}
	if c.cfg.Stock == nil {
		return domain.Result{InStock: true, Message: domain.MessageAllAvailable}
	}

	for _, item := range items {
		if item.Malformed {
			return domain.Result{Message: "Unreadable line item"}
		}
		available, ok := c.cfg.Stock[item.ProductID]
		if !ok {
			return domain.Result{Message: fmt.Sprintf("Product %s does not exist", item.ProductID)}
		}
		if available < item.Quantity {
			return domain.Result{Message: fmt.Sprintf("Insufficient stock for %s: available %d, requested %d",
				item.ProductID, available, item.Quantity)}
		}
	}
	return domain.Result{InStock: true, Message: domain.MessageAllAvailable}
}
