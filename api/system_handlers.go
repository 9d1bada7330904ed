package api

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 3 * time.Second

// HealthResponse reports service and backend status
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp"`
}

// healthCheck godoc
//
//	@Summary		Health check
//	@Description	Reports whether the storage backend is reachable
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/health [get]
func (a *API) healthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Timestamp: time.Now().UTC()}
	if a.services.Health == nil {
		a.respondJSON(w, resp, http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()
	if err := a.services.Health.HealthCheck(ctx); err != nil {
		a.logger.Warnw("Health check failed", "error", err)
		resp.Status = "unavailable"
		a.respondJSON(w, resp, http.StatusServiceUnavailable)
		return
	}
	a.respondJSON(w, resp, http.StatusOK)
}
