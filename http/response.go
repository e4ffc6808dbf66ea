package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/stowage"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UploadResponse reports the key actually stored and the bytes written.
type UploadResponse struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeStorageError maps the stowage error taxonomy onto HTTP statuses:
// invalid keys are client errors, absent objects are 404, anything else is
// a bad gateway since the fault lives in the upstream provider.
func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stowage.ErrInvalidKey):
		WriteError(w, http.StatusBadRequest, "invalid_key", err.Error())
	case errors.Is(err, stowage.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		WriteError(w, http.StatusBadGateway, "backend_error", err.Error())
	}
}
