// Package contract holds the JSON bodies exchanged between the services.
package contract

import "encoding/json"

// Paths of the downstream endpoints.
const (
	PathCheck   = "/check"
	PathProcess = "/process"
)

// PaymentApproved is the only status the processor ever returns.
const PaymentApproved = "approved"

// CheckRequest is the body of POST /check. Items are forwarded verbatim
// from the order request.
type CheckRequest struct {
	OrderID string            `json:"order_id"`
	Items   []json.RawMessage `json:"items"`
}

// CheckResponse is the body returned by the inventory collaborator.
type CheckResponse struct {
	OrderID string `json:"order_id"`
	InStock bool   `json:"in_stock"`
	Message string `json:"message"`
}

// ProcessRequest is the body of POST /process.
type ProcessRequest struct {
	OrderID    string  `json:"order_id"`
	Amount     float64 `json:"amount"`
	CustomerID string  `json:"customer_id"`
}

// ProcessResponse is the body returned by the payment processor.
type ProcessResponse struct {
	OrderID       string  `json:"order_id"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}
