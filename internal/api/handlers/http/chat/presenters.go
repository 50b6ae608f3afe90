package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"log/slog"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/philsmcc/groupdeedov2/internal/domain"
	"github.com/philsmcc/groupdeedov2/pkg/e"
)

type messageResponse struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}

type nearbyResponse struct {
	Messages []messageResponse `json:"messages"`
}

type preferenceResponse struct {
	DisplayName string  `json:"display_name"`
	RadiusMiles float64 `json:"radius_miles"`
	Channel     string  `json:"channel"`
}

func toMessageResponse(msg domain.Message) messageResponse {
	return messageResponse{
		ID:        msg.ID,
		Author:    msg.Author,
		Body:      msg.Body,
		Lat:       msg.Origin.Lat,
		Lng:       msg.Origin.Lng,
		Channel:   msg.Channel,
		CreatedAt: msg.CreatedAt,
	}
}

func toNearbyResponse(msgs []domain.Message) nearbyResponse {
	out := nearbyResponse{Messages: make([]messageResponse, 0, len(msgs))}
	for _, m := range msgs {
		out.Messages = append(out.Messages, toMessageResponse(m))
	}
	return out
}

func toPreferenceResponse(pref domain.Preference) preferenceResponse {
	return preferenceResponse{
		DisplayName: pref.DisplayName,
		RadiusMiles: pref.RadiusMiles,
		Channel:     pref.Channel,
	}
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	l.Error("handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	switch {
	case errors.Is(err, e.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, e.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input"})
	case errors.Is(err, e.ErrConflict):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict"})
	case errors.Is(err, e.ErrNotReady):
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "not ready"})
	default:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("json encode failed", slog.Any("error", err))
	}
}
