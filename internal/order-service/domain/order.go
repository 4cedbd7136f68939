package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// OrderRequest is supplied by the caller. Missing fields default to their
// zero values; nothing beyond presence is validated.
type OrderRequest struct {
	Items      []json.RawMessage `json:"items"`
	Total      float64           `json:"total"`
	CustomerID string            `json:"customer_id"`
}

// UnmarshalJSON accepts any JSON object. A field of the wrong type falls
// back to its zero value, except a numeric string total, which is parsed.
func (r *OrderRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = OrderRequest{}
	if raw, ok := fields["items"]; ok {
		_ = json.Unmarshal(raw, &r.Items)
	}
	if raw, ok := fields["total"]; ok {
		r.Total = parseTotal(raw)
	}
	if raw, ok := fields["customer_id"]; ok {
		_ = json.Unmarshal(raw, &r.CustomerID)
	}
	return nil
}

func parseTotal(raw json.RawMessage) float64 {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return n
		}
	}
	return 0
}

// Order lives only for the duration of one request.
type Order struct {
	ID      string
	Request OrderRequest
	State   State
}

// NewOrder wraps req with a fresh id in state Created.
func NewOrder(req OrderRequest) *Order {
	return &Order{
		ID:      uuid.NewString(),
		Request: req,
		State:   StateCreated,
	}
}

type State string

const (
	StateCreated           State = "CREATED"
	StateCheckingInventory State = "CHECKING_INVENTORY"
	StateInventoryPassed   State = "INVENTORY_PASSED"
	StateInventoryFailed   State = "INVENTORY_FAILED"
	StateProcessingPayment State = "PROCESSING_PAYMENT"
	StatePaymentFailed     State = "PAYMENT_FAILED"
	StateCompleted         State = "COMPLETED"
)

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	switch s {
	case StateInventoryFailed, StatePaymentFailed, StateCompleted:
		return true
	default:
		return false
	}
}

// Outcome is returned to the caller on success.
type Outcome struct {
	OrderID       string
	Status        string
	Message       string
	State         State
	TransactionID string
}

const (
	OutcomeCompleted        = "completed"
	OutcomeCompletedMessage = "Order processed successfully"
)
