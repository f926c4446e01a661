package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mallmap-api-go/internal/domain"
	"mallmap-api-go/internal/redisclient"
	"mallmap-api-go/internal/workflow"
)

// SlotsHandler serves slots ("emplacements"). Per-floor listings are
// cached in Redis; the workflow invalidates the cache when an
// acceptance occupies a slot.
type SlotsHandler struct {
	store    Store
	redis    *redisclient.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSlotsHandler creates a new slots handler. redis may be nil, in
// which case every read goes to Postgres.
func NewSlotsHandler(store Store, redis *redisclient.Client, cacheTTL time.Duration, logger *zap.Logger) *SlotsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotsHandler{
		store:    store,
		redis:    redis,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// HandleList handles GET /api/v1/emplacements
func (h *SlotsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	slots, err := h.store.ListSlots(r.Context())
	if err != nil {
		h.logger.Error("failed to list slots", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to list emplacements")
		return
	}
	respondWithData(w, http.StatusOK, slots)
}

// HandleListByFloor handles GET /api/v1/emplacements/etage/{etageId}
func (h *SlotsHandler) HandleListByFloor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	etageID := chi.URLParam(r, "etageId")

	if cached, ok := h.cacheGet(ctx, etageID); ok {
		respondWithData(w, http.StatusOK, cached)
		return
	}

	slots, err := h.store.ListSlotsByFloor(ctx, etageID)
	if err != nil {
		h.logger.Error("failed to list slots by floor", zap.Error(err), zap.String("etage_id", etageID))
		respondWithError(w, http.StatusInternalServerError, "failed to list emplacements")
		return
	}

	h.cacheSet(ctx, etageID, slots)
	respondWithData(w, http.StatusOK, slots)
}

// HandleListAvailable handles GET /api/v1/emplacements/disponibles
func (h *SlotsHandler) HandleListAvailable(w http.ResponseWriter, r *http.Request) {
	slots, err := h.store.ListAvailableSlots(r.Context())
	if err != nil {
		h.logger.Error("failed to list available slots", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to list emplacements")
		return
	}
	respondWithData(w, http.StatusOK, slots)
}

// HandleGet handles GET /api/v1/emplacements/{id}
func (h *SlotsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	slot, err := h.store.GetSlot(r.Context(), id)
	if err != nil {
		if errors.Is(err, workflow.ErrSlotNotFound) {
			respondWithError(w, http.StatusNotFound, "emplacement not found")
			return
		}
		h.logger.Error("failed to get slot", zap.Error(err), zap.String("emplacement_id", id))
		respondWithError(w, http.StatusInternalServerError, "failed to get emplacement")
		return
	}
	respondWithData(w, http.StatusOK, slot)
}

// HandleCreate handles POST /api/v1/emplacements
func (h *SlotsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload domain.CreateSlotRequest
	defer r.Body.Close()
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	slot := domain.Slot{
		ID:          uuid.New().String(),
		EtageID:     payload.EtageID,
		Numero:      payload.Numero,
		Coordonnees: payload.Coordonnees,
		Statut:      domain.SlotStatusFree,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateSlot(ctx, &slot); err != nil {
		h.logger.Error("failed to create slot", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to create emplacement")
		return
	}

	h.cacheInvalidate(ctx, slot.EtageID)
	h.logger.Info("slot created",
		zap.String("emplacement_id", slot.ID),
		zap.String("etage_id", slot.EtageID),
		zap.String("numero", slot.Numero),
	)
	respondWithData(w, http.StatusCreated, slot)
}

// Cache helpers. All best-effort: Redis errors are logged and the
// request proceeds against Postgres.

func (h *SlotsHandler) cacheGet(ctx context.Context, etageID string) ([]domain.Slot, bool) {
	if h.redis == nil {
		return nil, false
	}

	raw, err := h.redis.GetRedis().Get(ctx, redisclient.FloorSlotsKey(etageID)).Result()
	if err != nil {
		return nil, false
	}

	var slots []domain.Slot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		h.logger.Warn("corrupt slot cache entry", zap.Error(err), zap.String("etage_id", etageID))
		return nil, false
	}
	return slots, true
}

func (h *SlotsHandler) cacheSet(ctx context.Context, etageID string, slots []domain.Slot) {
	if h.redis == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := h.redis.GetRedis().Set(ctx, redisclient.FloorSlotsKey(etageID), raw, h.cacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache floor slots", zap.Error(err), zap.String("etage_id", etageID))
	}
}

func (h *SlotsHandler) cacheInvalidate(ctx context.Context, etageID string) {
	if h.redis == nil {
		return
	}
	if err := h.redis.GetRedis().Del(ctx, redisclient.FloorSlotsKey(etageID)).Err(); err != nil {
		h.logger.Warn("failed to invalidate floor slot cache", zap.Error(err), zap.String("etage_id", etageID))
	}
}
