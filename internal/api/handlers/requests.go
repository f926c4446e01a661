package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mallmap-api-go/internal/api/middleware"
	"mallmap-api-go/internal/domain"
	"mallmap-api-go/internal/workflow"
)

// RequestsHandler serves slot requests ("demandes boutiques").
// Submission and status transitions go through the workflow; listings
// read the store directly.
type RequestsHandler struct {
	workflow workflow.Interface
	store    Store
	logger   *zap.Logger
}

// NewRequestsHandler creates a new requests handler
func NewRequestsHandler(wf workflow.Interface, store Store, logger *zap.Logger) *RequestsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestsHandler{
		workflow: wf,
		store:    store,
		logger:   logger,
	}
}

// HandleSubmit handles POST /api/v1/demandes-boutiques
func (h *RequestsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload domain.CreateRequestPayload
	defer r.Body.Close()
	if err := decodeJSON(r, &payload); err != nil {
		h.logger.Warn("failed to decode request submission", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.workflow.Submit(r.Context(), userID, payload)
	if err != nil {
		if !workflow.IsValidation(err) {
			h.logger.Error("request submission failed",
				zap.Error(err),
				zap.String("user_id", userID),
				zap.String("emplacement_id", payload.EmplacementSouhaiteID),
			)
		}
		respondWithWorkflowError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, req)
}

// HandleListMine handles GET /api/v1/demandes-boutiques/mes-demandes
func (h *RequestsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	requests, err := h.store.ListRequestsByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list user requests", zap.Error(err), zap.String("user_id", userID))
		respondWithError(w, http.StatusInternalServerError, "failed to list demandes")
		return
	}
	respondWithData(w, http.StatusOK, requests)
}

// HandleList handles GET /api/v1/demandes-boutiques (admin)
func (h *RequestsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	requests, err := h.store.ListRequests(r.Context())
	if err != nil {
		h.logger.Error("failed to list requests", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "failed to list demandes")
		return
	}
	respondWithData(w, http.StatusOK, requests)
}

// HandleUpdateStatus handles PATCH /api/v1/demandes-boutiques/{id}/statut
// Accepts {"statut":"acceptee"} or {"statut":"refusee","motifRefus":"..."}.
func (h *RequestsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var payload domain.UpdateRequestStatusPayload
	defer r.Body.Close()
	if err := decodeJSON(r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		req *domain.SlotRequest
		err error
	)
	switch payload.Statut {
	case domain.RequestStatusAccepted:
		req, err = h.workflow.Accept(ctx, id)
	case domain.RequestStatusRejected:
		req, err = h.workflow.Reject(ctx, id, strings.TrimSpace(payload.MotifRefus))
	default:
		respondWithError(w, http.StatusBadRequest, "statut must be acceptee or refusee")
		return
	}

	if err != nil {
		if !workflow.IsValidation(err) {
			h.logger.Warn("request transition failed",
				zap.Error(err),
				zap.String("demande_id", id),
				zap.String("statut", string(payload.Statut)),
			)
		}
		respondWithWorkflowError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, req)
}
