package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// Serve upgrades the request and subscribes the connection to room until it
// closes. Callers must have authorized the session for room already.
func Serve(hub *Hub, room string, logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Accept(w, r, nil)
	if err != nil {
		logger.Warn("websocket accept", "room", room, "error", err)
		return
	}
	defer conn.CloseNow()

	NewClient(hub, conn, room).Run(r.Context())
}
