// Package httpx holds the HTTP plumbing shared by the three services:
// JSON responses, the health check and request logging.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the failure body returned by every service.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Kind   string `json:"kind,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, status int, kind, detail string) {
	WriteJSON(w, status, ErrorResponse{
		Detail: detail,
		Kind:   kind,
	})
}
