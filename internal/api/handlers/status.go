package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mallmap-api-go/internal/domain"
	"mallmap-api-go/internal/redisclient"
)

// StatusHandler handles status requests
type StatusHandler struct {
	store  Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewStatusHandler creates a new status handler. redis may be nil.
func NewStatusHandler(store Store, redis *redisclient.Client, logger *zap.Logger) *StatusHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusHandler{
		store:  store,
		redis:  redis,
		logger: logger,
	}
}

// Handle handles GET /api/v1/status
// Returns an operational snapshot: dependency health plus directory
// occupancy counters.
func (h *StatusHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "up"
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "down"
			h.logger.Warn("status check: redis down", zap.Error(err))
		}
	}

	status := map[string]interface{}{
		"redis": redisStatus,
	}

	floors, err := h.store.ListFloors(ctx)
	if err != nil {
		h.logger.Error("status check: failed to count floors", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "status check failed")
		return
	}
	status["etages"] = len(floors)

	slots, err := h.store.ListSlots(ctx)
	if err != nil {
		h.logger.Error("status check: failed to count slots", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "status check failed")
		return
	}
	free := 0
	for _, s := range slots {
		if s.Statut == domain.SlotStatusFree {
			free++
		}
	}
	status["emplacements"] = map[string]int{
		"total":   len(slots),
		"libres":  free,
		"occupes": len(slots) - free,
	}

	requests, err := h.store.ListRequests(ctx)
	if err != nil {
		h.logger.Error("status check: failed to count requests", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "status check failed")
		return
	}
	pending := 0
	for _, req := range requests {
		if req.Statut == domain.RequestStatusPending {
			pending++
		}
	}
	status["demandes"] = map[string]int{
		"total":      len(requests),
		"en_attente": pending,
	}

	respondWithData(w, http.StatusOK, status)
}
