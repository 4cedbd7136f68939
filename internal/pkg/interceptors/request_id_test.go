package interceptors

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagateRequestID(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get(middleware.RequestIDHeader)
	}))
	defer srv.Close()

	client := &http.Client{Transport: PropagateRequestID(nil)}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-7")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "req-7", <-got)
	assert.Empty(t, req.Header.Get(middleware.RequestIDHeader), "caller request left untouched")
}

func TestPropagateRequestID_NoID(t *testing.T) {
	t.Parallel()

	var got string
	next := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		got = r.Header.Get(middleware.RequestIDHeader)
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	_, err := PropagateRequestID(next).RoundTrip(req)
	require.NoError(t, err)
	assert.Empty(t, got)
}
