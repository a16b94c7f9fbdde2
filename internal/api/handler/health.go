package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/mcoot/playerdb/internal/api/response"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /api/health
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Get reports ok when the store answers a ping
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		response.JSON(w, http.StatusServiceUnavailable, response.HealthResponse{Status: "degraded", Store: err.Error()})
		return
	}
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok", Store: "ok"})
}
