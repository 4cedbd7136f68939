package httpx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/chaos-orders/internal/pkg/contract"
	shared "github.com/jcmexdev/chaos-orders/internal/pkg/httpx"
)

func NewRouter(service string, handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(shared.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Post(contract.PathCheck, handler.Check)
	r.Get("/health", shared.Health(service))
	return r
}
