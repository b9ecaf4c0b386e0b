package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/velodash/gearframe/internal/strava"
	"github.com/velodash/gearframe/internal/tokens"
	"github.com/velodash/gearframe/pkg/api"
)

// AuthHandler serves the authentication status endpoint and the OAuth
// authorization flow against the platform.
type AuthHandler struct {
	logger *slog.Logger
	store  tokens.Store
	client *strava.Client
	states *stateRegistry
}

// NewAuthHandler creates the handler for status and OAuth endpoints
func NewAuthHandler(logger *slog.Logger, store tokens.Store, client *strava.Client) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		store:  store,
		client: client,
		states: newStateRegistry(),
	}
}

// Status handles GET /.
// Without a user_id query parameter it only points at the login flow;
// with one it reports whether stored credentials exist for that user.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		sendJSON(h.logger, w, api.AuthStatus{
			Status:  "not_authenticated",
			Message: "visit /strava/auth to connect your account",
		}, http.StatusOK)
		return
	}

	creds, err := h.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, tokens.ErrNotAuthenticated) {
			sendJSON(h.logger, w, api.AuthStatus{
				Status:  "not_authenticated",
				Message: "visit /strava/auth to connect your account",
				UserID:  userID,
			}, http.StatusOK)
			return
		}
		h.logger.ErrorContext(ctx, "failed to read credentials", slog.Any("error", err))
		sendDomainError(h.logger, w, err)
		return
	}

	sendJSON(h.logger, w, api.AuthStatus{
		Status:       "authenticated",
		Message:      "credentials on file",
		TokenExpires: time.Unix(creds.ExpiresAt, 0).UTC().Format(time.RFC3339),
		UserID:       userID,
	}, http.StatusOK)
}

// Login handles GET /strava/auth.
// Issues a fresh state nonce and redirects to the platform's
// authorization page.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	h.states.Add(state)

	h.logger.InfoContext(r.Context(), "starting authorization flow", slog.String("state", state))

	http.Redirect(w, r, h.client.AuthorizationURL(state), http.StatusFound)
}

// Callback handles GET /strava/callback.
// Verifies the state nonce, exchanges the code for a token triple and
// persists it keyed by the athlete id.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		h.logger.WarnContext(ctx, "authorization denied by user", slog.String("error", errParam))
		sendError(h.logger, w, "authorization was denied: "+errParam, http.StatusBadRequest)
		return
	}

	state := q.Get("state")
	if state == "" || !h.states.Consume(state) {
		h.logger.WarnContext(ctx, "callback with unknown or expired state")
		sendError(h.logger, w, "unknown or expired state, restart at /strava/auth", http.StatusBadRequest)
		return
	}

	code := q.Get("code")
	if code == "" {
		sendError(h.logger, w, "code is required", http.StatusBadRequest)
		return
	}

	resp, err := h.client.ExchangeCode(ctx, code)
	if err != nil {
		h.logger.ErrorContext(ctx, "code exchange failed", slog.Any("error", err))
		sendError(h.logger, w, "code exchange with the platform failed", http.StatusBadGateway)
		return
	}

	if resp.Athlete == nil {
		h.logger.ErrorContext(ctx, "token response without athlete profile")
		sendError(h.logger, w, "platform response missing athlete profile", http.StatusBadGateway)
		return
	}

	userID := strconv.FormatInt(resp.Athlete.ID, 10)

	creds := &tokens.Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
	}
	if err := h.store.Put(ctx, userID, creds); err != nil {
		h.logger.ErrorContext(ctx, "failed to persist credentials",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		sendError(h.logger, w, "failed to persist credentials", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user authenticated", slog.String("user_id", userID))

	sendJSON(h.logger, w, api.CallbackResponse{
		Message: "Authentication successful",
		UserID:  userID,
	}, http.StatusOK)
}
