package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/jcmexdev/chaos-orders/internal/order-service/domain"
	"github.com/jcmexdev/chaos-orders/internal/pkg/contract"
)

// PaymentClient talks to the payment processor's POST /process.
type PaymentClient struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// NewPaymentClient returns a client for baseURL. A non-positive timeout
// falls back to PaymentTimeout.
func NewPaymentClient(client *http.Client, baseURL string, timeout time.Duration) *PaymentClient {
	if client == nil {
		client = NewHTTPClient()
	}
	if timeout <= 0 {
		timeout = PaymentTimeout
	}
	return &PaymentClient{client: client, baseURL: baseURL, timeout: timeout}
}

// Process issues exactly one payment request. Failures are classified as
// ErrPaymentTimeout when the deadline elapses before the response is read,
// ErrPaymentRejected on a non-2xx status and ErrPaymentUnavailable for any
// other transport failure.
//
// A 2xx answer is success even when its body cannot be decoded; the
// returned response then carries only the order id.
func (c *PaymentClient) Process(ctx context.Context, req contract.ProcessRequest) (contract.ProcessResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := postJSON(ctx, c.client, c.baseURL+contract.PathProcess, req)
	if err != nil {
		return contract.ProcessResponse{}, c.classify(ctx, err)
	}
	defer drain(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return contract.ProcessResponse{}, domain.NewStepError(domain.ErrPaymentRejected, resp.StatusCode, nil)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return contract.ProcessResponse{}, c.classify(ctx, err)
	}

	out := contract.ProcessResponse{OrderID: req.OrderID}
	_ = json.Unmarshal(raw, &out)
	return out, nil
}

func (c *PaymentClient) classify(ctx context.Context, err error) error {
	if timedOut(ctx, err) {
		return domain.NewStepError(domain.ErrPaymentTimeout, 0, err)
	}
	return domain.NewStepError(domain.ErrPaymentUnavailable, 0, err)
}
