package handlers

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mallmap-api-go/internal/api/middleware"
	"mallmap-api-go/internal/datastore/postgres"
	"mallmap-api-go/internal/domain"
	"mallmap-api-go/internal/maprender"
)

// FloorsHandler serves floors and their rendered plans
type FloorsHandler struct {
	store      Store
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFloorsHandler creates a new floors handler. planImageTimeout
// bounds the fetch of a floor's background plan image.
func NewFloorsHandler(store Store, planImageTimeout time.Duration, logger *zap.Logger) *FloorsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FloorsHandler{
		store:      store,
		httpClient: &http.Client{Timeout: planImageTimeout},
		logger:     logger,
	}
}

// HandleList handles GET /api/v1/etages
func (h *FloorsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	floors, err := h.store.ListFloors(r.Context())
	if err != nil {
		h.logger.Error("failed to list floors", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to list etages")
		return
	}
	respondWithData(w, http.StatusOK, floors)
}

// HandleGet handles GET /api/v1/etages/{id}
func (h *FloorsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	floor, err := h.store.GetFloor(r.Context(), id)
	if err != nil {
		if errors.Is(err, postgres.ErrFloorNotFound) {
			respondWithError(w, http.StatusNotFound, "etage not found")
			return
		}
		h.logger.Error("failed to get floor", zap.Error(err), zap.String("etage_id", id))
		respondWithError(w, http.StatusInternalServerError, "failed to get etage")
		return
	}
	respondWithData(w, http.StatusOK, floor)
}

// HandleCreate handles POST /api/v1/etages
func (h *FloorsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var payload domain.CreateFloorRequest
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
	floor := domain.Floor{
		ID:        uuid.New().String(),
		Nom:       payload.Nom,
		Niveau:    payload.Niveau,
		PlanImage: payload.PlanImage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateFloor(r.Context(), &floor); err != nil {
		h.logger.Error("failed to create floor", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to create etage")
		return
	}

	h.logger.Info("floor created",
		zap.String("etage_id", floor.ID),
		zap.Int("niveau", floor.Niveau),
	)
	respondWithData(w, http.StatusCreated, floor)
}

// HandlePlan handles GET /api/v1/etages/{id}/plan.png?hover=<slotId>
// It renders the floor's slots onto the logical surface and streams the
// result as PNG. A missing or broken background plan image degrades to
// a plain background, never to an error.
func (h *FloorsHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	hoveredID := r.URL.Query().Get("hover")

	floor, err := h.store.GetFloor(ctx, id)
	if err != nil {
		if errors.Is(err, postgres.ErrFloorNotFound) {
			respondWithError(w, http.StatusNotFound, "etage not found")
			return
		}
		h.logger.Error("failed to get floor for render", zap.Error(err), zap.String("etage_id", id))
		middleware.MapRendersTotal.WithLabelValues("error").Inc()
		respondWithError(w, http.StatusInternalServerError, "failed to render plan")
		return
	}

	slots, err := h.store.ListSlotsByFloor(ctx, id)
	if err != nil {
		h.logger.Error("failed to list slots for render", zap.Error(err), zap.String("etage_id", id))
		middleware.MapRendersTotal.WithLabelValues("error").Inc()
		respondWithError(w, http.StatusInternalServerError, "failed to render plan")
		return
	}

	renderer := maprender.New()
	renderer.SetSlots(slots)
	if bg := h.fetchPlanImage(ctx, floor.PlanImage); bg != nil {
		renderer.SetBackground(bg)
	}

	surface := renderer.NewSurface()
	renderer.Render(surface, hoveredID)

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, surface); err != nil {
		// Headers are already out; just log.
		h.logger.Warn("failed to encode plan png", zap.Error(err), zap.String("etage_id", id))
		middleware.MapRendersTotal.WithLabelValues("error").Inc()
		return
	}
	middleware.MapRendersTotal.WithLabelValues("success").Inc()
}

// HandleHit handles GET /api/v1/etages/{id}/hit?x=&y=&w=&h=
// x/y are pointer coordinates on a display of w×h; they are normalized
// to the logical surface before testing. data is null on a miss.
func (h *FloorsHandler) HandleHit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	x, errX := parseFloatParam(r, "x")
	y, errY := parseFloatParam(r, "y")
	if errX != nil || errY != nil {
		respondWithError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	displayW, errW := parseFloatParam(r, "w")
	if errW != nil {
		displayW = maprender.LogicalWidth
	}
	displayH, errH := parseFloatParam(r, "h")
	if errH != nil {
		displayH = maprender.LogicalHeight
	}
	if displayW <= 0 || displayH <= 0 {
		respondWithError(w, http.StatusBadRequest, "w and h must be positive")
		return
	}

	if _, err := h.store.GetFloor(ctx, id); err != nil {
		if errors.Is(err, postgres.ErrFloorNotFound) {
			respondWithError(w, http.StatusNotFound, "etage not found")
			return
		}
		h.logger.Error("failed to get floor for hit-test", zap.Error(err), zap.String("etage_id", id))
		respondWithError(w, http.StatusInternalServerError, "hit-test failed")
		return
	}

	slots, err := h.store.ListSlotsByFloor(ctx, id)
	if err != nil {
		h.logger.Error("failed to list slots for hit-test", zap.Error(err), zap.String("etage_id", id))
		respondWithError(w, http.StatusInternalServerError, "hit-test failed")
		return
	}

	renderer := maprender.New()
	renderer.SetSlots(slots)
	slot := renderer.HitTest(x, y, displayW, displayH)
	if slot == nil {
		middleware.HitTestsTotal.WithLabelValues("miss").Inc()
		respondWithData(w, http.StatusOK, nil)
		return
	}

	middleware.HitTestsTotal.WithLabelValues("hit").Inc()
	respondWithData(w, http.StatusOK, slot)
}

// fetchPlanImage downloads and decodes the floor's plan image. Any
// failure is logged and swallowed: the map renders without background.
func (h *FloorsHandler) fetchPlanImage(ctx context.Context, url string) image.Image {
	if url == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		h.logger.Warn("invalid plan image url", zap.Error(err), zap.String("url", url))
		return nil
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Warn("failed to fetch plan image", zap.Error(err), zap.String("url", url))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.logger.Warn("plan image fetch returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("url", url),
		)
		return nil
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		h.logger.Warn("failed to decode plan image", zap.Error(err), zap.String("url", url))
		return nil
	}
	return img
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	return strconv.ParseFloat(raw, 64)
}
