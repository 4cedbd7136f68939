package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jcmexdev/chaos-orders/internal/pkg/contract"
	shared "github.com/jcmexdev/chaos-orders/internal/pkg/httpx"
)

type PaymentProcessor interface {
	Process(ctx context.Context, req contract.ProcessRequest) (contract.ProcessResponse, error)
}

type Handler struct {
	processor PaymentProcessor
}

func NewHandler(processor PaymentProcessor) *Handler {
	return &Handler{processor: processor}
}

// Process charges the order. The only failure after decoding is the caller
// hanging up mid-delay, so the error body is rarely read by anyone.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	var req contract.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid JSON")
		return
	}

	res, err := h.processor.Process(r.Context(), req)
	if err != nil {
		shared.WriteError(w, http.StatusServiceUnavailable, "cancelled", "Payment abandoned")
		return
	}
	shared.WriteJSON(w, http.StatusOK, res)
}
