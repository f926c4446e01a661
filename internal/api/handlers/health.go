package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mallmap-api-go/internal/datastore/postgres"
	"mallmap-api-go/internal/redisclient"
)

// HealthHandler handles health and readiness checks
type HealthHandler struct {
	db     *postgres.Client
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler. redis may be nil.
func NewHealthHandler(db *postgres.Client, redis *redisclient.Client, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		db:     db,
		redis:  redis,
		logger: logger,
	}
}

// HandleHealth handles GET /api/v1/health (liveness probe)
// Returns 200 unconditionally — the process is alive. Liveness must not
// depend on external services, otherwise an outage cascades into
// restarts.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady handles GET /api/v1/ready (readiness probe)
// Postgres is required to serve traffic; Redis is an optional cache and
// does not gate readiness.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("readiness check failed: postgres unavailable", zap.Error(err))
		respondWithError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
