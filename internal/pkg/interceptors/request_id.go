// Package interceptors wraps outbound HTTP transports so correlation
// metadata from the inbound request follows every downstream call.
package interceptors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// PropagateRequestID copies the request id stored by chi's RequestID
// middleware into the X-Request-Id header of outgoing requests.
func PropagateRequestID(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		id := middleware.GetReqID(r.Context())
		if id == "" || r.Header.Get(middleware.RequestIDHeader) != "" {
			return next.RoundTrip(r)
		}
		// RoundTrippers must not mutate the caller's request.
		r = r.Clone(r.Context())
		r.Header.Set(middleware.RequestIDHeader, id)
		return next.RoundTrip(r)
	})
}
