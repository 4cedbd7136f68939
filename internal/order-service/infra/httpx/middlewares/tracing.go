package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AttachRequestID copies the chi request id onto the active server span so
// a trace can be found from the X-Request-Id a client saw.
func AttachRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requestID := middleware.GetReqID(r.Context()); requestID != "" {
			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("http.request_id", requestID))
		}
		next.ServeHTTP(w, r)
	})
}
