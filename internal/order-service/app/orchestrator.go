// Package app implements the order orchestration: one inventory check,
// then one payment, failing fast on the first error.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/chaos-orders/internal/coordinator"
	"github.com/jcmexdev/chaos-orders/internal/coordinator/steplog"
	"github.com/jcmexdev/chaos-orders/internal/order-service/domain"
	"github.com/jcmexdev/chaos-orders/internal/pkg/tally"
)

// Orchestrator turns an order request into one completed outcome or one
// classified failure. It holds no per-order state and is safe for
// concurrent use.
type Orchestrator struct {
	inventory coordinator.InventoryChecker
	payment   coordinator.PaymentProcessor
	recorder  steplog.Recorder
	counter   tally.Counter
	tracer    trace.Tracer
	logger    *slog.Logger
}

// TallyTimeout bounds the outcome tally write made before Submit returns.
const TallyTimeout = 250 * time.Millisecond

type Option func(*Orchestrator)

// WithRecorder writes every state transition to rec.
func WithRecorder(rec steplog.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = rec }
}

// WithCounter counts each order's outcome in c.
func WithCounter(c tally.Counter) Option {
	return func(o *Orchestrator) { o.counter = c }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New panics if either collaborator is nil.
func New(inventory coordinator.InventoryChecker, payment coordinator.PaymentProcessor, opts ...Option) *Orchestrator {
	if inventory == nil || payment == nil {
		panic("app.New: nil collaborator")
	}
	o := &Orchestrator{
		inventory: inventory,
		payment:   payment,
		tracer:    otel.Tracer("github.com/jcmexdev/chaos-orders/internal/order-service/app"),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit processes one order. On failure the returned error wraps a
// *domain.StepError; the outcome still carries the order id and the
// terminal state reached.
func (o *Orchestrator) Submit(ctx context.Context, req domain.OrderRequest) (domain.Outcome, error) {
	order := domain.NewOrder(req)

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("order.id", order.ID))
	ctx, span := o.tracer.Start(ctx, "process-order",
		trace.WithAttributes(attribute.String("order.id", order.ID)),
	)
	defer span.End()

	o.logger.InfoContext(ctx, "Processing new order",
		"order_id", order.ID,
		"customer_id", req.CustomerID,
		"item_count", len(req.Items),
		"total", req.Total,
	)

	payment := coordinator.NewPaymentStep(o.payment, order.ID, req.Total, req.CustomerID)
	steps := []coordinator.Step{
		coordinator.NewInventoryStep(o.inventory, order.ID, req.Items),
		payment,
	}

	pipeline := coordinator.NewOrchestrator(order.ID, steps, coordinator.Options{
		Recorder:     o.recorder,
		Tracer:       o.tracer,
		Logger:       o.logger,
		InitialState: string(order.State),
		Payload:      encodePayload(req),
	})

	err := pipeline.Start(ctx)
	order.State = domain.State(pipeline.State())
	span.SetAttributes(attribute.String("order.state", string(order.State)))
	o.count(ctx, err)

	outcome := domain.Outcome{OrderID: order.ID, State: order.State}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.Detail(err))
		span.SetAttributes(attribute.String("error.kind", domain.Kind(err)))

		o.logger.ErrorContext(ctx, domain.Detail(err),
			"order_id", order.ID,
			"kind", domain.Kind(err),
			"status", domain.HTTPStatus(err),
			"error", err.Error(),
		)
		return outcome, fmt.Errorf("order %s: %w", order.ID, err)
	}

	outcome.Status = domain.OutcomeCompleted
	outcome.Message = domain.OutcomeCompletedMessage
	outcome.TransactionID = payment.Result().TransactionID

	o.logger.InfoContext(ctx, "Order completed successfully",
		"order_id", order.ID,
		"transaction_id", outcome.TransactionID,
	)
	return outcome, nil
}

func (o *Orchestrator) count(ctx context.Context, err error) {
	if o.counter == nil {
		return
	}
	outcome := domain.OutcomeCompleted
	if err != nil {
		outcome = domain.Kind(err)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), TallyTimeout)
	defer cancel()
	if cerr := o.counter.Incr(ctx, outcome); cerr != nil {
		o.logger.WarnContext(ctx, "outcome tally failed", "outcome", outcome, "error", cerr.Error())
	}
}

// orderSummary is the only part of an order written to the step log.
type orderSummary struct {
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
}

func encodePayload(req domain.OrderRequest) string {
	b, err := json.Marshal(orderSummary{ItemCount: len(req.Items), Total: req.Total})
	if err != nil {
		return ""
	}
	return string(b)
}
