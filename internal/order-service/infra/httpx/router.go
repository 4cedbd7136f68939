package httpx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/chaos-orders/internal/order-service/infra/httpx/middlewares"
	shared "github.com/jcmexdev/chaos-orders/internal/pkg/httpx"
)

func NewRouter(service string, handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestID)
	r.Use(shared.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Post("/orders", handler.CreateOrder)
	r.Get("/health", shared.Health(service))
	if handler.counter != nil {
		r.Get("/stats", handler.Stats)
	}
	if handler.steps != nil {
		r.Get("/orders/{id}/steps", handler.OrderSteps)
	}
	return r
}
