package httpx

import "net/http"

// HealthResponse is the fixed liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health reports liveness for service. It checks no dependencies.
func Health(service string) http.HandlerFunc {
	body := HealthResponse{Status: "healthy", Service: service}
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, body)
	}
}
