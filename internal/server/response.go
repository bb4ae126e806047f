package server

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	"github.com/SublimeIbanez/Overseer/internal/errors"
)

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	envelope := Envelope{
		Success: status < 400,
		Data:    data,
	}
	if err := json.MarshalWrite(w, envelope); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	envelope := Envelope{
		Success: false,
		Error:   message,
	}
	if err := json.MarshalWrite(w, envelope); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// handleError maps a domain error onto its HTTP status; anything else
// becomes a 500.
func handleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		writeError(w, domainErr.HTTPStatus(), domainErr.Message, logger)
		return
	}

	logger.Error("unhandled error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error", logger)
}
