// Package health provides liveness and readiness endpoints.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

// HealthCheck manages health check functionality.
type HealthCheck struct {
	database     Pinger
	logger       *zap.Logger
	timeout      time.Duration
	shuttingDown atomic.Bool
}

// NewHealthCheck creates a new HealthCheck instance.
func NewHealthCheck(database Pinger, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		database: database,
		logger:   logger,
		timeout:  5 * time.Second,
	}
}

// LivenessResponse represents the response for the liveness check.
type LivenessResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the response for the readiness check.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// LivenessHandler handles GET /health requests.
// Returns 200 OK if the process is running.
func (hc *HealthCheck) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{Status: "healthy"})
}

// ReadinessHandler handles GET /ready requests.
// Returns 200 OK if the database answers a ping and the server is not draining.
func (hc *HealthCheck) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	if hc.shuttingDown.Load() {
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{
			Status: "not_ready",
			Error:  "shutting down",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hc.timeout)
	defer cancel()

	if err := hc.database(ctx); err != nil {
		hc.logger.Warn("readiness check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{
			Status: "not_ready",
			Checks: map[string]string{"database": "unhealthy"},
			Error:  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, ReadinessResponse{
		Status: "ready",
		Checks: map[string]string{"database": "healthy"},
	})
}

// SetShuttingDown makes readiness fail so load balancers stop routing traffic.
func (hc *HealthCheck) SetShuttingDown() {
	hc.shuttingDown.Store(true)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
