package realtime

import (
	"log"
	"net/http"

	"github.com/calebmori/gatherly/internal/infrastructure/ws"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub *ws.Hub
}

func NewHandler(hub *ws.Hub) *Handler {
	return &Handler{
		hub: hub,
	}
}

// ServeWS godoc
// @Summary      Open the realtime socket
// @Description  Upgrades the connection to WebSocket; clients then send joinEvent/leaveEvent signals to subscribe to per-event rooms
// @Tags         realtime
// @Success      101 {object} map[string]interface{} "Switching Protocols - WebSocket connection established"
// @Failure      400 {object} map[string]interface{} "Bad request - upgrade failed"
// @Router       /ws [get]
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(conn, uuid.NewString())

	h.hub.Register() <- client

	go client.WritePump()
	go client.ReadPump(h.hub)
}
