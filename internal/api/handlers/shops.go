package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mallmap-api-go/internal/api/middleware"
	"mallmap-api-go/internal/datastore/postgres"
	"mallmap-api-go/internal/domain"
)

// ShopsHandler serves shops ("boutiques") and the categories catalog
type ShopsHandler struct {
	store  Store
	logger *zap.Logger
}

// NewShopsHandler creates a new shops handler
func NewShopsHandler(store Store, logger *zap.Logger) *ShopsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopsHandler{
		store:  store,
		logger: logger,
	}
}

// HandleList handles GET /api/v1/boutiques
func (h *ShopsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	shops, err := h.store.ListShops(r.Context())
	if err != nil {
		h.logger.Error("failed to list shops", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to list boutiques")
		return
	}
	respondWithData(w, http.StatusOK, shops)
}

// HandleListMine handles GET /api/v1/boutiques/mes-boutiques
func (h *ShopsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	shops, err := h.store.ListShopsByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list user shops", zap.Error(err), zap.String("user_id", userID))
		respondWithError(w, http.StatusInternalServerError, "failed to list boutiques")
		return
	}
	respondWithData(w, http.StatusOK, shops)
}

// HandleGet handles GET /api/v1/boutiques/{id}
func (h *ShopsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	shop, err := h.store.GetShop(r.Context(), id)
	if err != nil {
		if errors.Is(err, postgres.ErrShopNotFound) {
			respondWithError(w, http.StatusNotFound, "boutique not found")
			return
		}
		h.logger.Error("failed to get shop", zap.Error(err), zap.String("boutique_id", id))
		respondWithError(w, http.StatusInternalServerError, "failed to get boutique")
		return
	}
	respondWithData(w, http.StatusOK, shop)
}

// HandleCreate handles POST /api/v1/boutiques (administrative creation,
// bypassing the request workflow). The shop starts validated.
func (h *ShopsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var payload domain.CreateShopRequest
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
	shop := domain.Shop{
		ID:             uuid.New().String(),
		UserID:         payload.UserID,
		Nom:            payload.Nom,
		Description:    payload.Description,
		CategorieID:    payload.CategorieID,
		Logo:           payload.Logo,
		Images:         payload.Images,
		HeureOuverture: payload.HeureOuverture,
		HeureFermeture: payload.HeureFermeture,
		JoursOuverture: payload.JoursOuverture,
		Statut:         domain.ShopStatusValidated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.store.CreateShop(r.Context(), &shop); err != nil {
		h.logger.Error("failed to create shop", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to create boutique")
		return
	}

	h.logger.Info("shop created",
		zap.String("boutique_id", shop.ID),
		zap.String("user_id", shop.UserID),
	)
	respondWithData(w, http.StatusCreated, shop)
}

// HandleCategories handles GET /api/v1/categories
func (h *ShopsHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	respondWithData(w, http.StatusOK, categories)
}

// HandleActiveTenancies handles GET /api/v1/locations/actives?etageId=
func (h *ShopsHandler) HandleActiveTenancies(w http.ResponseWriter, r *http.Request) {
	etageID := r.URL.Query().Get("etageId")
	if etageID == "" {
		respondWithError(w, http.StatusBadRequest, "etageId is required")
		return
	}

	tenancies, err := h.store.ListActiveTenanciesByFloor(r.Context(), etageID, time.Now().UTC())
	if err != nil {
		h.logger.Error("failed to list active tenancies", zap.Error(err), zap.String("etage_id", etageID))
		respondWithError(w, http.StatusInternalServerError, "failed to list locations")
		return
	}
	respondWithData(w, http.StatusOK, tenancies)
}
