package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jcmexdev/chaos-orders/internal/inventory-service/adapters/mappers"
	"github.com/jcmexdev/chaos-orders/internal/inventory-service/domain"
	"github.com/jcmexdev/chaos-orders/internal/pkg/contract"
	shared "github.com/jcmexdev/chaos-orders/internal/pkg/httpx"
)

type StockChecker interface {
	Check(ctx context.Context, req *domain.Check) (domain.Result, error)
}

type Handler struct {
	checker StockChecker
}

func NewHandler(checker StockChecker) *Handler {
	return &Handler{checker: checker}
}

// Check answers 200 when every item is available and 409 otherwise.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req contract.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid request")
		return
	}

	res, err := h.checker.Check(r.Context(), mappers.CheckFromContract(r.Context(), req))
	if err != nil {
		shared.WriteError(w, http.StatusServiceUnavailable, "cancelled", "Inventory check abandoned")
		return
	}

	status := http.StatusOK
	if !res.InStock {
		status = http.StatusConflict
	}
	shared.WriteJSON(w, status, contract.CheckResponse{
		OrderID: req.OrderID,
		InStock: res.InStock,
		Message: res.Message,
	})
}
