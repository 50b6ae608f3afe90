package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"log/slog"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/internal/middleware"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ChatHandler interface {
	PostMessage(ctx context.Context, req domain.PostMessageRequest) (domain.Message, error)
	FetchNearby(ctx context.Context, req domain.FetchNearbyRequest) ([]domain.Message, error)
}

type PreferenceHandler interface {
	Save(ctx context.Context, sessionID string, req domain.SavePreferencesRequest) (domain.Preference, error)
	Load(ctx context.Context, sessionID string) (*domain.Preference, error)
}

type Handler struct {
	logger            *slog.Logger
	ChatHandler       ChatHandler
	PreferenceHandler PreferenceHandler
}

func NewHandler(logger *slog.Logger, chatHandler ChatHandler, preferenceHandler PreferenceHandler) *Handler {
	return &Handler{
		logger:            logger,
		ChatHandler:       chatHandler,
		PreferenceHandler: preferenceHandler,
	}
}

func (h *Handler) ChatMessagePost(w http.ResponseWriter, r *http.Request) {
	var req domain.PostMessageRequest

	if !h.decodeStrict(w, r, &req) {
		return
	}

	msg, err := h.ChatHandler.PostMessage(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toMessageResponse(msg))
}

func (h *Handler) ChatMessagesNearby(w http.ResponseWriter, r *http.Request) {
	var req domain.FetchNearbyRequest

	if !h.decodeStrict(w, r, &req) {
		return
	}

	msgs, err := h.ChatHandler.FetchNearby(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toNearbyResponse(msgs))
}

func (h *Handler) SettingsGet(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	if sessionID == "" {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}

	pref, err := h.PreferenceHandler.Load(r.Context(), sessionID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if pref == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "no saved settings"})
		return
	}

	h.writeJSON(w, http.StatusOK, toPreferenceResponse(*pref))
}

func (h *Handler) SettingsPut(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	if sessionID == "" {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}

	var req domain.SavePreferencesRequest
	if !h.decodeStrict(w, r, &req) {
		return
	}

	pref, err := h.PreferenceHandler.Save(r.Context(), sessionID, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toPreferenceResponse(pref))
}

// decodeStrict rejects unknown fields and trailing data after the first
// JSON object. Returns false after writing the 400 response.
func (h *Handler) decodeStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	return true
}
