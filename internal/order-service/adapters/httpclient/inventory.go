package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jcmexdev/chaos-orders/internal/order-service/domain"
	"github.com/jcmexdev/chaos-orders/internal/pkg/contract"
)

// InventoryClient talks to the inventory collaborator's POST /check.
type InventoryClient struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// NewInventoryClient returns a client for baseURL. A non-positive timeout
// falls back to InventoryTimeout.
func NewInventoryClient(client *http.Client, baseURL string, timeout time.Duration) *InventoryClient {
	if client == nil {
		client = NewHTTPClient()
	}
	if timeout <= 0 {
		timeout = InventoryTimeout
	}
	return &InventoryClient{client: client, baseURL: baseURL, timeout: timeout}
}

// Check returns nil when the collaborator answers 2xx. A non-2xx answer
// yields ErrInventoryRejected carrying the status; any transport failure,
// including the deadline, yields ErrInventoryUnavailable.
func (c *InventoryClient) Check(ctx context.Context, orderID string, items []json.RawMessage) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if items == nil {
		items = []json.RawMessage{}
	}

	resp, err := postJSON(ctx, c.client, c.baseURL+contract.PathCheck, contract.CheckRequest{
		OrderID: orderID,
		Items:   items,
	})
	if err != nil {
		return domain.NewStepError(domain.ErrInventoryUnavailable, 0, err)
	}
	defer drain(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return domain.NewStepError(domain.ErrInventoryRejected, resp.StatusCode, nil)
	}
	return nil
}
