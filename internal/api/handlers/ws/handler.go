package ws

import (
	"net/http"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/philsmcc/groupdeedov2/internal/presence"
	"github.com/philsmcc/groupdeedov2/internal/realtime"
)

type Handler struct {
	logger             *slog.Logger
	registry           *presence.Registry
	upgrader           websocket.Upgrader
	sendBuffer         int
	defaultRadiusMiles float64
	defaultChannel     string
}

func NewHandler(logger *slog.Logger, registry *presence.Registry, sendBuffer int, defaultRadiusMiles float64, defaultChannel string) *Handler {
	return &Handler{
		logger:   logger,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Anonymous chat, same-site frontend only.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sendBuffer:         sendBuffer,
		defaultRadiusMiles: defaultRadiusMiles,
		defaultChannel:     defaultChannel,
	}
}

// Serve upgrades the connection and runs the read/write pumps. The read pump
// owns registry cleanup; the write pump exits when the send channel closes.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	connID := uuid.NewString()
	client := realtime.NewClient(connID, conn, h.registry, h.logger, h.sendBuffer, h.defaultRadiusMiles, h.defaultChannel)

	h.logger.Info("websocket connected",
		slog.String("conn_id", connID),
		slog.String("remote_addr", r.RemoteAddr),
	)

	go client.WritePump()
	client.ReadPump()

	h.logger.Info("websocket disconnected", slog.String("conn_id", connID))
}
