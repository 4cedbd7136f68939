package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/chaos-orders/internal/coordinator/steplog"
	"github.com/jcmexdev/chaos-orders/internal/order-service/domain"
	shared "github.com/jcmexdev/chaos-orders/internal/pkg/httpx"
	"github.com/jcmexdev/chaos-orders/internal/pkg/tally"
)

// OrderSubmitter runs one order through the downstream chain.
type OrderSubmitter interface {
	Submit(ctx context.Context, req domain.OrderRequest) (domain.Outcome, error)
}

// StepReader lists the recorded transitions of one order, oldest first.
type StepReader interface {
	List(ctx context.Context, orderID string) ([]*steplog.Entry, error)
}

// Handler handles incoming HTTP requests for the order endpoints.
type Handler struct {
	orders  OrderSubmitter
	counter tally.Counter // nil: /stats is not served
	steps   StepReader    // nil: /orders/{id}/steps is not served
	logger  *slog.Logger
}

type HandlerOption func(*Handler)

// WithStats serves GET /stats from c.
func WithStats(c tally.Counter) HandlerOption {
	return func(h *Handler) { h.counter = c }
}

// WithStepLog serves GET /orders/{id}/steps from r.
func WithStepLog(r StepReader) HandlerOption {
	return func(h *Handler) { h.steps = r }
}

func NewHandler(orders OrderSubmitter, logger *slog.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{orders: orders, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CreateOrder decodes the order and answers with either the completed
// outcome or the first classified failure.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "rejecting malformed order body", "error", err.Error())
		shared.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid JSON")
		return
	}

	outcome, err := h.orders.Submit(r.Context(), req)
	if err != nil {
		shared.WriteError(w, domain.HTTPStatus(err), domain.Kind(err), domain.Detail(err))
		return
	}

	shared.WriteJSON(w, http.StatusOK, CreateOrderResponse{
		OrderID: outcome.OrderID,
		Status:  outcome.Status,
		Message: outcome.Message,
	})
}

// Stats reports how many orders ended in each outcome.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.counter.Counts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "reading outcome tally", "error", err.Error())
		shared.WriteError(w, http.StatusServiceUnavailable, "stats_unavailable", "Outcome tally unavailable")
		return
	}
	if counts == nil {
		counts = map[string]int64{}
	}
	shared.WriteJSON(w, http.StatusOK, StatsResponse{Outcomes: counts})
}

// OrderSteps returns the step log of one order.
func (h *Handler) OrderSteps(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	entries, err := h.steps.List(r.Context(), orderID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "reading step log", "order_id", orderID, "error", err.Error())
		shared.WriteError(w, http.StatusServiceUnavailable, "step_log_unavailable", "Step log unavailable")
		return
	}
	if len(entries) == 0 {
		shared.WriteError(w, http.StatusNotFound, "order_not_found", "No steps recorded for order")
		return
	}

	shared.WriteJSON(w, http.StatusOK, mapSteps(orderID, entries))
}

func mapSteps(orderID string, entries []*steplog.Entry) StepsResponse {
	out := StepsResponse{OrderID: orderID, Steps: make([]StepResponse, len(entries))}
	for i, e := range entries {
		step := StepResponse{
			State:     e.State,
			Step:      e.Step,
			TraceID:   e.TraceID,
			UpdatedAt: e.UpdatedAt,
		}
		if e.ErrorMessages != "" && e.ErrorMessages != "[]" {
			step.Errors = json.RawMessage(e.ErrorMessages)
		}
		out.Steps[i] = step
	}
	return out
}
