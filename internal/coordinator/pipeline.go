// Package coordinator runs an order's downstream calls as an ordered list
// of steps.
//
// Steps run strictly one after another. The first failure ends the run and
// is returned as is: nothing is retried and completed steps are not
// compensated.
package coordinator

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/chaos-orders/internal/coordinator/steplog"
)

// Step is a single downstream call in the pipeline.
type Step interface {
	// Name is used as the span name and the step field in logs.
	Name() string
	// States names the order states entered around Execute.
	States() States
	Execute(ctx context.Context) error
}

// States names the order state entered before a step runs, after it
// passes, and after it fails.
type States struct {
	Running string
	Passed  string
	Failed  string
}

// Options carries the collaborators of an Orchestrator. Zero values are
// allowed: a nil Recorder skips the step log, a nil Tracer uses the global
// provider and a nil Logger uses slog.Default().
type Options struct {
	Recorder steplog.Recorder
	Tracer   trace.Tracer
	Logger   *slog.Logger

	// InitialState is recorded, together with Payload, before the first step.
	InitialState string
	Payload      string
}

// Orchestrator manages the execution of one order's steps.
type Orchestrator struct {
	orderID  string
	steps    []Step
	recorder steplog.Recorder
	tracer   trace.Tracer
	logger   *slog.Logger
	state    string
	payload  string
}

func NewOrchestrator(orderID string, steps []Step, opts Options) *Orchestrator {
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("github.com/jcmexdev/chaos-orders/internal/coordinator")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Orchestrator{
		orderID:  orderID,
		steps:    steps,
		recorder: opts.Recorder,
		tracer:   opts.Tracer,
		logger:   opts.Logger,
		state:    opts.InitialState,
		payload:  opts.Payload,
	}
}

// State returns the last state entered.
func (o *Orchestrator) State() string {
	return o.state
}

// Start runs the steps sequentially and returns the first error.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.record(ctx, "", o.payload, nil)

	for _, step := range o.steps {
		if err := o.run(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, step Step) error {
	ctx, span := o.tracer.Start(ctx, step.Name(),
		trace.WithAttributes(attribute.String("order.id", o.orderID)),
	)
	defer span.End()

	states := step.States()
	o.transition(ctx, step, states.Running, nil)

	if err := step.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.transition(ctx, step, states.Failed, err)

		o.logger.ErrorContext(ctx, "step failed",
			"order_id", o.orderID,
			"step", step.Name(),
			"outcome", states.Failed,
			"error", err.Error(),
		)
		return err
	}

	o.transition(ctx, step, states.Passed, nil)
	o.logger.InfoContext(ctx, "step passed",
		"order_id", o.orderID,
		"step", step.Name(),
		"outcome", states.Passed,
	)
	return nil
}

func (o *Orchestrator) transition(ctx context.Context, step Step, state string, err error) {
	o.state = state
	trace.SpanFromContext(ctx).AddEvent("state", trace.WithAttributes(attribute.String("order.state", state)))

	var errs []string
	if err != nil {
		errs = []string{err.Error()}
	}
	o.record(ctx, step.Name(), "", errs)
}

// record appends to the step log. Failures are logged and otherwise ignored.
func (o *Orchestrator) record(ctx context.Context, stepName, payload string, errs []string) {
	if o.recorder == nil {
		return
	}
	entry := steplog.NewEntry(ctx, o.orderID, o.state, stepName, payload, errs)
	if err := o.recorder.Save(context.WithoutCancel(ctx), entry); err != nil {
		o.logger.WarnContext(ctx, "step log write failed",
			"order_id", o.orderID,
			"step", stepName,
			"error", err.Error(),
		)
	}
}
