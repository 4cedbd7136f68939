package coordinator

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/chaos-orders/internal/order-service/domain"
	"github.com/jcmexdev/chaos-orders/internal/pkg/contract"
)

// InventoryChecker asks the inventory collaborator whether an order can be
// fulfilled. A nil error means the check passed.
type InventoryChecker interface {
	Check(ctx context.Context, orderID string, items []json.RawMessage) error
}

// PaymentProcessor charges an order through the payment collaborator.
type PaymentProcessor interface {
	Process(ctx context.Context, req contract.ProcessRequest) (contract.ProcessResponse, error)
}

// --- InventoryStep ---

type InventoryStep struct {
	client  InventoryChecker
	orderID string
	items   []json.RawMessage
}

func NewInventoryStep(client InventoryChecker, orderID string, items []json.RawMessage) *InventoryStep {
	return &InventoryStep{
		client:  client,
		orderID: orderID,
		items:   items,
	}
}

func (s *InventoryStep) Name() string { return "check-inventory" }

func (s *InventoryStep) States() States {
	return States{
		Running: string(domain.StateCheckingInventory),
		Passed:  string(domain.StateInventoryPassed),
		Failed:  string(domain.StateInventoryFailed),
	}
}

func (s *InventoryStep) Execute(ctx context.Context) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("inventory.item_count", len(s.items)))
	return s.client.Check(ctx, s.orderID, s.items)
}

// --- PaymentStep ---

type PaymentStep struct {
	client  PaymentProcessor
	request contract.ProcessRequest
	result  contract.ProcessResponse
}

func NewPaymentStep(client PaymentProcessor, orderID string, amount float64, customerID string) *PaymentStep {
	return &PaymentStep{
		client: client,
		request: contract.ProcessRequest{
			OrderID:    orderID,
			Amount:     amount,
			CustomerID: customerID,
		},
	}
}

func (s *PaymentStep) Name() string { return "process-payment" }

func (s *PaymentStep) States() States {
	return States{
		Running: string(domain.StateProcessingPayment),
		Passed:  string(domain.StateCompleted),
		Failed:  string(domain.StatePaymentFailed),
	}
}

func (s *PaymentStep) Execute(ctx context.Context) error {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Float64("payment.amount", s.request.Amount))

	res, err := s.client.Process(ctx, s.request)
	if err != nil {
		return err
	}
	s.result = res
	span.SetAttributes(attribute.String("payment.transaction_id", res.TransactionID))
	return nil
}

// Result is the processor's response once Execute has succeeded.
func (s *PaymentStep) Result() contract.ProcessResponse {
	return s.result
}
