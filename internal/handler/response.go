package handler

// Response helpers shared by every handler: one place turns domain errors
// into HTTP statuses, so no handler ever picks a status code by hand.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bdec/jobboard/internal/apperror"
)

// ErrorResponse is the single error shape the API returns.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable type, e.g. "conflict"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response. Headers and status must be written
// before the body — Encode's first write flushes them.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status.
//
// STATUS MAPPING:
// The API keeps the 400 family the frontend was built against: duplicate
// email, duplicate application, and bad credentials all answer 400 with
// distinct error types, while missing/invalid tokens answer 401, role
// failures 403, and missing rows 404.
//
// errors.Is walks the wrapped chain, so services can annotate repository
// errors freely without breaking the mapping.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			errorType = "conflict"
		case errors.Is(err, apperror.ErrInvalidCredentials):
			status = http.StatusBadRequest
			errorType = "invalid_credentials"
		case errors.Is(err, apperror.ErrUnauthenticated):
			status = http.StatusUnauthorized
			errorType = "unauthenticated"
		case errors.Is(err, apperror.ErrInvalidToken):
			status = http.StatusUnauthorized
			errorType = "invalid_token"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unexpected failure: terminal for the request, reported to the caller
	// with the underlying error. This board has no secrets in its error
	// strings, and a visible cause beats a support round-trip.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
