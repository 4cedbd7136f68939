package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/chaos-orders/internal/payment-service/app"
)

type zeroRand struct{}

func (zeroRand) Float64() float64 { return 0 }

func newServer(t *testing.T, cfg app.Config) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	processor := app.New(cfg, app.WithLogger(logger))
	srv := httptest.NewServer(NewRouter("payment-service", NewHandler(processor), logger))
	t.Cleanup(srv.Close)
	return srv
}

func TestProcessEndpoint(t *testing.T) {
	t.Parallel()

	srv := newServer(t, app.Config{Rand: zeroRand{}, NormalDelayMin: time.Millisecond, NormalDelayMax: 2 * time.Millisecond})

	resp, err := http.Post(srv.URL+"/process", "application/json",
		strings.NewReader(`{"order_id":"abcdef12-3456","amount":10,"customer_id":"c1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"order_id":"abcdef12-3456","status":"approved","transaction_id":"txn-abcdef12","amount":10}`, string(body))
}

func TestProcessEndpoint_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := newServer(t, app.Config{})

	resp, err := http.Post(srv.URL+"/process", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcessEndpoint_ChaosOutlastsCaller(t *testing.T) {
	t.Parallel()

	srv := newServer(t, app.Config{
		InjectLatency: true,
		Rand:          zeroRand{},
		ChaosDelayMin: 500 * time.Millisecond,
		ChaosDelayMax: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, srv.URL+"/process", strings.NewReader(`{"order_id":"o-1"}`))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	if err == nil {
		resp.Body.Close()
	}
	require.Error(t, err, "the processor answers only after the caller gave up")
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := newServer(t, app.Config{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"healthy","service":"payment-service"}`, string(body))
}
