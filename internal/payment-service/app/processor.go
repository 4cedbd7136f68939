// Package app implements the payment processor. It always approves, after
// a simulated delay that chaos mode occasionally stretches past the
// caller's timeout.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/chaos-orders/internal/pkg/chaos"
	"github.com/jcmexdev/chaos-orders/internal/pkg/contract"
)

const (
	DefaultChaosProbability = 0.3
	DefaultChaosDelayMin    = 5 * time.Second
	DefaultChaosDelayMax    = 10 * time.Second
	DefaultNormalDelayMin   = 100 * time.Millisecond
	DefaultNormalDelayMax   = 500 * time.Millisecond
)

// Config is fixed for the lifetime of a Processor. Zero durations, a zero
// probability, a nil Rand and a nil Sleep take the package defaults.
type Config struct {
	InjectLatency bool

	ChaosProbability float64
	ChaosDelayMin    time.Duration
	ChaosDelayMax    time.Duration
	NormalDelayMin   time.Duration
	NormalDelayMax   time.Duration

	Rand  chaos.Rand
	Sleep chaos.SleepFunc
}

func (c Config) withDefaults() Config {
	if c.ChaosProbability == 0 {
		c.ChaosProbability = DefaultChaosProbability
	}
	if c.ChaosDelayMin == 0 {
		c.ChaosDelayMin = DefaultChaosDelayMin
	}
	if c.ChaosDelayMax == 0 {
		c.ChaosDelayMax = DefaultChaosDelayMax
	}
	if c.NormalDelayMin == 0 {
		c.NormalDelayMin = DefaultNormalDelayMin
	}
	if c.NormalDelayMax == 0 {
		c.NormalDelayMax = DefaultNormalDelayMax
	}
	if c.Rand == nil {
		c.Rand = chaos.DefaultRand
	}
	if c.Sleep == nil {
		c.Sleep = chaos.SleepOrDone
	}
	return c
}

type Processor struct {
	cfg    Config
	tracer trace.Tracer
	logger *slog.Logger
}

type Option func(*Processor)

func WithTracer(t trace.Tracer) Option {
	return func(p *Processor) { p.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

func New(cfg Config, opts ...Option) *Processor {
	p := &Processor{
		cfg:    cfg.withDefaults(),
		tracer: otel.Tracer("github.com/jcmexdev/chaos-orders/internal/payment-service/app"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// InjectLatency reports whether chaos mode is on.
func (p *Processor) InjectLatency() bool {
	return p.cfg.InjectLatency
}

// Process approves req after the simulated delay. It fails only when ctx
// ends before the delay does.
func (p *Processor) Process(ctx context.Context, req contract.ProcessRequest) (contract.ProcessResponse, error) {
	orderID := req.OrderID
	if orderID == "" {
		orderID = "unknown"
	}

	ctx, span := p.tracer.Start(ctx, "charge", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.Float64("payment.amount", req.Amount),
		attribute.Bool("chaos.inject_latency", p.cfg.InjectLatency),
	))
	defer span.End()

	p.logger.InfoContext(ctx, "Processing payment",
		"order_id", orderID,
		"amount", req.Amount,
		"inject_latency", p.cfg.InjectLatency,
	)

	delay, delayed := p.pickDelay()
	span.SetAttributes(attribute.Bool("chaos.delayed", delayed))
	if delayed {
		span.SetAttributes(attribute.Float64("chaos.delay_seconds", delay.Seconds()))
		p.logger.WarnContext(ctx, "CHAOS: Injecting latency",
			"order_id", orderID,
			"delay_seconds", math.Round(delay.Seconds()*100)/100,
		)
	}

	if err := p.cfg.Sleep(ctx, delay); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "caller went away")
		p.logger.WarnContext(ctx, "Payment abandoned by caller",
			"order_id", orderID,
			"error", err.Error(),
		)
		return contract.ProcessResponse{}, fmt.Errorf("payment %s: %w", orderID, err)
	}

	p.logger.InfoContext(ctx, "Payment processed",
		"order_id", orderID,
		"amount", req.Amount,
	)

	return contract.ProcessResponse{
		OrderID:       orderID,
		Status:        contract.PaymentApproved,
		TransactionID: TransactionID(orderID),
		Amount:        req.Amount,
	}, nil
}

// pickDelay draws the chaos branch first, then the delay within the chosen
// window.
func (p *Processor) pickDelay() (time.Duration, bool) {
	if p.cfg.InjectLatency && p.cfg.Rand.Float64() < p.cfg.ChaosProbability {
		return chaos.Uniform(p.cfg.Rand, p.cfg.ChaosDelayMin, p.cfg.ChaosDelayMax), true
	}
	return chaos.Uniform(p.cfg.Rand, p.cfg.NormalDelayMin, p.cfg.NormalDelayMax), false
}

// TransactionID is "txn-" followed by the first eight characters of orderID.
func TransactionID(orderID string) string {
	if r := []rune(orderID); len(r) > 8 {
		orderID = string(r[:8])
	}
	return "txn-" + orderID
}
