// Package httpclient calls the inventory and payment collaborators over
// HTTP and classifies every failure into the order failure taxonomy.
//
// Each call carries its own deadline. When it fires the request is
// abandoned; the collaborator may keep working. Nothing is retried.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/chaos-orders/internal/pkg/interceptors"
)

// Per-call budgets. The payment budget sits below the processor's chaos
// delay window, so every delayed payment times out here.
const (
	InventoryTimeout = 5 * time.Second
	PaymentTimeout   = 3 * time.Second
)

// maxBody bounds how much of a collaborator response is read.
const maxBody = 1 << 20

// NewHTTPClient returns a client that propagates the trace context and
// request id. It has no client-wide timeout; callers bound each request.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(interceptors.PropagateRequestID(http.DefaultTransport)),
	}
}

// postJSON sends body to url and returns the response. The caller closes
// the body.
func postJSON(ctx context.Context, client *http.Client, url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return client.Do(req)
}

// drain discards the rest of body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBody))
	_ = body.Close()
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// timedOut reports whether err, or the call's own context, hit a deadline.
func timedOut(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
