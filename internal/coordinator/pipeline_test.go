package coordinator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jcmexdev/chaos-orders/internal/coordinator/steplog"
)

type fakeStep struct {
	name  string
	err   error
	calls *[]string
}

func (s fakeStep) Name() string { return s.name }

func (s fakeStep) States() States {
	return States{Running: s.name + "_RUNNING", Passed: s.name + "_PASSED", Failed: s.name + "_FAILED"}
}

func (s fakeStep) Execute(_ context.Context) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

type memRecorder struct {
	mu      sync.Mutex
	entries []*steplog.Entry
	err     error
}

func (r *memRecorder) Save(_ context.Context, e *steplog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return r.err
}

func (r *memRecorder) states() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.State
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOrchestrator_AllStepsPass(t *testing.T) {
	t.Parallel()

	var calls []string
	rec := &memRecorder{}
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	o := NewOrchestrator("o-1", []Step{
		fakeStep{name: "a", calls: &calls},
		fakeStep{name: "b", calls: &calls},
	}, Options{
		Recorder:     rec,
		Tracer:       tp.Tracer("test"),
		Logger:       quietLogger(),
		InitialState: "CREATED",
		Payload:      `{"total":1}`,
	})

	require.NoError(t, o.Start(context.Background()))

	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Equal(t, "b_PASSED", o.State())
	assert.Equal(t, []string{"CREATED", "a_RUNNING", "a_PASSED", "b_RUNNING", "b_PASSED"}, rec.states())
	assert.Equal(t, `{"total":1}`, rec.entries[0].Payload)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "a", spans[0].Name())
	assert.Equal(t, "b", spans[1].Name())
	assert.Equal(t, rec.entries[1].TraceID, spans[0].SpanContext().TraceID().String())
}

func TestOrchestrator_FailFast(t *testing.T) {
	t.Parallel()

	var calls []string
	rec := &memRecorder{}
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	boom := errors.New("boom")

	o := NewOrchestrator("o-2", []Step{
		fakeStep{name: "a", err: boom, calls: &calls},
		fakeStep{name: "b", calls: &calls},
	}, Options{Recorder: rec, Tracer: tp.Tracer("test"), Logger: quietLogger(), InitialState: "CREATED"})

	err := o.Start(context.Background())
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"a"}, calls, "later steps never run")
	assert.Equal(t, "a_FAILED", o.State())
	assert.Equal(t, []string{"CREATED", "a_RUNNING", "a_FAILED"}, rec.states())
	assert.Equal(t, `["boom"]`, rec.entries[2].ErrorMessages)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestOrchestrator_RecorderFailureIgnored(t *testing.T) {
	t.Parallel()

	var calls []string
	rec := &memRecorder{err: errors.New("disk full")}

	o := NewOrchestrator("o-3", []Step{fakeStep{name: "a", calls: &calls}}, Options{Recorder: rec, Logger: quietLogger()})

	require.NoError(t, o.Start(context.Background()))
	assert.Equal(t, []string{"a"}, calls)
}

func TestOrchestrator_NilOptions(t *testing.T) {
	t.Parallel()

	var calls []string
	o := NewOrchestrator("o-4", []Step{fakeStep{name: "a", calls: &calls}}, Options{})

	require.NoError(t, o.Start(context.Background()))
	assert.Equal(t, "a_PASSED", o.State())
}
