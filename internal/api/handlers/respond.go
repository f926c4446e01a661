package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mallmap-api-go/internal/workflow"
)

// Every JSON response is wrapped: {"success":true,"data":...} on
// success, {"success":false,"message":...} on failure.

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func respondWithData(w http.ResponseWriter, status int, data interface{}) {
	respondWithJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// respondWithWorkflowError maps the workflow's error taxonomy onto HTTP
// statuses shared by the request endpoints.
func respondWithWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case workflow.IsValidation(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrRequestNotFound):
		respondWithError(w, http.StatusNotFound, "demande not found")
	case errors.Is(err, workflow.ErrSlotNotFound):
		respondWithError(w, http.StatusNotFound, "emplacement not found")
	case errors.Is(err, workflow.ErrNotPending):
		respondWithError(w, http.StatusConflict, "demande is not pending")
	case errors.Is(err, workflow.ErrSlotUnavailable):
		respondWithError(w, http.StatusConflict, "emplacement is not available")
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
