package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lariosa/stockroom-be/internal/monitoring"
)

// SystemHandler serves a resource snapshot of the running process host.
type SystemHandler struct {
	started time.Time
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{started: time.Now()}
}

// Get returns uptime plus host CPU and memory usage.
func (h *SystemHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := monitoring.Snapshot(h.started)
	if err != nil {
		log.Error().Err(err).Msg("Failed to collect system stats")
		respondError(w, http.StatusInternalServerError, "Failed to collect system stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
