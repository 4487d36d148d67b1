// Package handlers provides HTTP handlers for the envdeck server.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/envdeck/envdeck/internal/vault"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	vault *vault.Vault
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(v *vault.Vault) *HealthHandler {
	return &HealthHandler{vault: v}
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}

// Liveness handles the /health endpoint.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Readiness handles the /ready endpoint. The only dependency is the
// settings store, exercised with a read.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	services := make(map[string]string)
	status := "healthy"
	statusCode := http.StatusOK

	if _, err := h.vault.LoadGroups(); err != nil {
		services["store"] = "unhealthy"
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else {
		services["store"] = "healthy"
	}

	resp := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
