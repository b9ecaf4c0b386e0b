package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velodash/gearframe/internal/gear"
	"github.com/velodash/gearframe/internal/render"
	"github.com/velodash/gearframe/internal/strava"
	"github.com/velodash/gearframe/internal/validation"
	"github.com/velodash/gearframe/pkg/api"
)

// SessionProvider yields an authenticated session for a user id,
// refreshing stored credentials when needed
type SessionProvider interface {
	GetSession(ctx context.Context, userID string) (*strava.Session, error)
}

// GearHandler serves the gear list, gear statistics and the rendered
// statistics image.
type GearHandler struct {
	logger     *slog.Logger
	sessions   SessionProvider
	aggregator *gear.Aggregator
}

// NewGearHandler creates the handler for gear endpoints
func NewGearHandler(logger *slog.Logger, sessions SessionProvider, aggregator *gear.Aggregator) *GearHandler {
	return &GearHandler{
		logger:     logger,
		sessions:   sessions,
		aggregator: aggregator,
	}
}

// List handles GET /users/{userID}/gear.
// Returns the user's bikes and shoes from the athlete profile.
func (h *GearHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := chi.URLParam(r, "userID")
	if err := validation.ValidateUserID(userID); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.GetSession(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to obtain session",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		sendDomainError(h.logger, w, err)
		return
	}

	athlete, err := sess.Athlete(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to fetch athlete profile",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		sendError(h.logger, w, "upstream platform request failed", http.StatusBadGateway)
		return
	}

	list := api.GearList{Gear: make([]api.GearItem, 0, len(athlete.Bikes)+len(athlete.Shoes))}
	for _, g := range athlete.Bikes {
		list.Gear = append(list.Gear, api.GearItem{ID: g.ID, Name: g.Name})
	}
	for _, g := range athlete.Shoes {
		list.Gear = append(list.Gear, api.GearItem{ID: g.ID, Name: g.Name})
	}

	sendJSON(h.logger, w, list, http.StatusOK)
}

// Stats handles GET /users/{userID}/gear/{gearID}.
// Returns rolling-window statistics for one piece of gear.
func (h *GearHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.aggregate(w, r)
	if !ok {
		return
	}

	sendJSON(h.logger, w, stats, http.StatusOK)
}

// Image handles GET /users/{userID}/gear/{gearID}/image.
// Returns the statistics rendered as a PNG for the e-ink display.
func (h *GearHandler) Image(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.aggregate(w, r)
	if !ok {
		return
	}

	img, err := render.GearImage(stats)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to render gear image",
			slog.String("gear_id", stats.GearID),
			slog.Any("error", err),
		)
		sendDomainError(h.logger, w, err)
		return
	}

	// encode to a buffer first so an encoding failure can still produce
	// an error response
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode gear image", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write gear image", slog.Any("error", err))
	}
}

// aggregate validates the path, obtains a session and computes the
// statistics shared by Stats and Image. On failure it has already
// written the response.
func (h *GearHandler) aggregate(w http.ResponseWriter, r *http.Request) (*api.GearStats, bool) {
	ctx := r.Context()

	userID := chi.URLParam(r, "userID")
	if err := validation.ValidateUserID(userID); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	gearID := chi.URLParam(r, "gearID")
	if err := validation.ValidateGearID(gearID); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	sess, err := h.sessions.GetSession(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to obtain session",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		sendDomainError(h.logger, w, err)
		return nil, false
	}

	stats, err := h.aggregator.Aggregate(ctx, sess, gearID)
	if err != nil {
		h.logger.ErrorContext(ctx, "aggregation failed",
			slog.String("user_id", userID),
			slog.String("gear_id", gearID),
			slog.Any("error", err),
		)
		sendDomainError(h.logger, w, err)
		return nil, false
	}

	return stats, true
}
