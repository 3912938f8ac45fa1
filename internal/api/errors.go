package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/joestump/gift-certs/internal/service"
)

type errorBody struct {
	Error      string   `json:"error"`
	Code       string   `json:"code"`
	Violations []string `json:"violations,omitempty"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a service error kind to its response. Anything the
// service does not classify is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:      err.Error(),
			Code:       "VALIDATION_FAILED",
			Violations: verr.Violations,
		})
	case errors.Is(err, service.ErrUnknownParameter):
		writeError(w, http.StatusBadRequest, err.Error(), "UNKNOWN_PARAMETER")
	case errors.Is(err, service.ErrUnknownEntity):
		writeError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, service.ErrDuplicateEntity):
		writeError(w, http.StatusConflict, err.Error(), "DUPLICATE_NAME")
	default:
		log.Error().
			Err(err).
			Str("request_id", RequestIDFromContext(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}
