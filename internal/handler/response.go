// Package handler exposes the planning pipeline's engines over HTTP.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hotelops/roster/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondEngineError maps the apperr taxonomy to HTTP status codes; any
// other error is treated as an unexpected internal failure.
func respondEngineError(w http.ResponseWriter, err error) {
	if v, ok := apperr.AsValidationError(err); ok {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation failed", "blocking_errors": v.BlockingErrors})
		return
	}
	if nf, ok := apperr.AsNotFound(err); ok {
		respondError(w, http.StatusNotFound, nf.Error())
		return
	}
	if c, ok := apperr.AsConflictError(err); ok {
		respondError(w, http.StatusConflict, c.Error())
		return
	}
	if d, ok := apperr.AsDataAbsent(err); ok {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": d.Reason, "affected_dates": d.AffectedDates})
		return
	}
	if i, ok := apperr.AsIntegrityError(err); ok {
		respondError(w, http.StatusInternalServerError, i.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}
