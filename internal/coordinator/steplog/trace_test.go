package steplog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewEntry_WithSpan(t *testing.T) {
	t.Parallel()

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "check-inventory")
	defer span.End()

	e := NewEntry(ctx, "o-1", "INVENTORY_FAILED", "check-inventory", "", []string{"Inventory check failed"})

	assert.Equal(t, "o-1", e.OrderID)
	assert.Equal(t, "INVENTORY_FAILED", e.State)
	assert.Equal(t, `["Inventory check failed"]`, e.ErrorMessages)
	assert.Equal(t, span.SpanContext().TraceID().String(), e.TraceID)
	assert.Equal(t, span.SpanContext().SpanID().String(), e.SpanID)
	assert.False(t, e.UpdatedAt.IsZero())
}

func TestNewEntry_NoSpan(t *testing.T) {
	t.Parallel()

	e := NewEntry(context.Background(), "o-2", "CREATED", "", `{"total":10}`, nil)

	assert.Equal(t, "[]", e.ErrorMessages)
	assert.Empty(t, e.TraceID)
	assert.Empty(t, e.SpanID)
	assert.Equal(t, `{"total":10}`, e.Payload)
}
