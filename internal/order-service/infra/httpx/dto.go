package httpx

import (
	"encoding/json"
	"time"
)

type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type StatsResponse struct {
	Outcomes map[string]int64 `json:"outcomes"`
}

type StepsResponse struct {
	OrderID string         `json:"order_id"`
	Steps   []StepResponse `json:"steps"`
}

type StepResponse struct {
	State     string          `json:"state"`
	Step      string          `json:"step,omitempty"`
	Errors    json.RawMessage `json:"errors,omitempty"`
	TraceID   string          `json:"trace_id,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}
