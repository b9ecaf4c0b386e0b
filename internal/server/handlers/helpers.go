// Package handlers contains the HTTP handlers: authentication status,
// the OAuth flow, gear listing, gear statistics and the rendered image.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/velodash/gearframe/internal/gear"
	"github.com/velodash/gearframe/internal/render"
	"github.com/velodash/gearframe/internal/session"
	"github.com/velodash/gearframe/internal/tokens"
	"github.com/velodash/gearframe/pkg/api"
)

// sendJSON writes data as a JSON response with the given status
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError writes a JSON error body with the given status
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	sendJSON(logger, w, resp, statusCode)
}

// sendDomainError maps domain errors to HTTP statuses. Anything not in
// the taxonomy is an internal error; its details stay in the log.
func sendDomainError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tokens.ErrNotAuthenticated):
		sendError(logger, w, "not authenticated, visit /strava/auth first", http.StatusUnauthorized)
	case errors.Is(err, session.ErrRefreshFailed):
		sendError(logger, w, "stored credentials rejected, re-authenticate via /strava/auth", http.StatusUnauthorized)
	case errors.Is(err, gear.ErrAggregationFailed):
		sendError(logger, w, "upstream platform request failed", http.StatusBadGateway)
	case errors.Is(err, render.ErrBrandNotConfigured):
		sendError(logger, w, "no display layout configured for this brand", http.StatusUnprocessableEntity)
	default:
		sendError(logger, w, "internal server error", http.StatusInternalServerError)
	}
}
