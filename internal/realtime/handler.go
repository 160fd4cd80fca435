// Package realtime implements the presence channel: a thin WebSocket layer
// that tracks which collaborators are online per room and relays cursor
// positions. Document state flows through the sync layer, not here.
package realtime

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"cypress/internal/httputil"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is enforced by the CORS layer in front of the mux.
		return true
	},
}

// Handler upgrades authenticated requests onto the presence hub.
type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

// NewHandler creates a new presence handler.
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection handles the WebSocket upgrade.
// GET /api/realtime
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewClient(h.hub, conn, userID, httputil.GetUserEmail(r), h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
