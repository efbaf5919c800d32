package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

// errorResponse is the uniform error envelope: a success flag, a stable error
// kind for programmatic handling, and human-readable messages.
type errorResponse struct {
	Success  bool     `json:"success"`
	Kind     string   `json:"kind"`
	Messages []string `json:"messages"`
}

const (
	kindBadRequest      = "BAD_REQUEST"
	kindUnauthenticated = "UNAUTHENTICATED"
	kindForbidden       = "FORBIDDEN"
	kindNotFound        = "NOT_FOUND"
	kindConflict        = "CONFLICT"
	kindInternal        = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, kind string, messages ...string) {
	writeJSON(w, status, errorResponse{Kind: kind, Messages: messages})
}

// respondError maps domain errors to HTTP statuses and error kinds. Unknown
// errors are logged and reported as opaque internal errors.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		messages := make([]string, len(ve.Errors))
		for i, fe := range ve.Errors {
			messages[i] = fe.Field + ": " + fe.Message
		}
		writeError(w, http.StatusBadRequest, kindBadRequest, messages...)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, kindBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, kindUnauthenticated, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, kindForbidden, "operation not allowed")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, kindNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, kindConflict, err.Error())
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, kindInternal, "internal server error")
	}
}

// decodeJSON reads the request body into v, refusing unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError("body", "malformed JSON: "+err.Error())
	}
	return nil
}
