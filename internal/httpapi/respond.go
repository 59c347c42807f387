package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"golist/internal/list"
	"golist/internal/theme"
)

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a {"error": message} response.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it. Server-side failures
// are logged.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSONError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, list.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, theme.ErrInvalidTheme):
		return http.StatusUnprocessableEntity
	case errors.Is(err, list.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, list.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
