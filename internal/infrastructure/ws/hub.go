package ws

import (
	"log"

	"github.com/calebmori/gatherly/internal/infrastructure/metrics"
)

// Hub owns the presence registry and fans messages out to subscribers.
// Delivery is fire-and-forget, at most once per connected client; all
// publishes funnel through a single run loop, so two publishes to the same
// room from the same caller arrive in the order they were issued.
type Hub struct {
	registry   *PresenceRegistry
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	metrics    *metrics.Metrics
}

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		registry:   NewPresenceRegistry(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		metrics:    m,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case cl := <-h.register:
			h.registry.AddConnection(cl)
			if h.metrics != nil {
				h.metrics.WSConnections.Inc()
			}

		case cl := <-h.unregister:
			// No final viewerUpdate is broadcast for the rooms the
			// connection was in; only explicit leaves rebroadcast.
			h.registry.RemoveConnectionEverywhere(cl)
			cl.Close()
			if h.metrics != nil {
				h.metrics.WSConnections.Dec()
			}

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) Register() chan<- *Client {
	return h.register
}

func (h *Hub) Unregister() chan<- *Client {
	return h.unregister
}

// JoinRoom subscribes cl to room and rebroadcasts the room's viewer count.
func (h *Hub) JoinRoom(cl *Client, room string) {
	h.registry.Join(room, cl)
	h.broadcast <- NewViewerUpdate(room, h.registry.Count(room))
}

// LeaveRoom unsubscribes cl from room and rebroadcasts the viewer count.
func (h *Hub) LeaveRoom(cl *Client, room string) {
	h.registry.Leave(room, cl)
	h.broadcast <- NewViewerUpdate(room, h.registry.Count(room))
}

// PublishToRoom delivers data under event to every subscriber of room.
// Publishing to a room with no subscribers is a no-op, not an error.
func (h *Hub) PublishToRoom(room, event string, data any) {
	h.broadcast <- &Message{Event: event, Room: room, Data: data}
}

// PublishToAll delivers data under event to every connected client.
func (h *Hub) PublishToAll(event string, data any) {
	h.broadcast <- &Message{Event: event, Data: data}
}

// ViewerCount reports how many connections are currently watching room.
func (h *Hub) ViewerCount(room string) int {
	return h.registry.Count(room)
}

func (h *Hub) deliver(msg *Message) {
	var clients []*Client
	if msg.Room == "" {
		clients = h.registry.AllClients()
	} else {
		clients = h.registry.RoomClients(msg.Room)
	}

	for _, cl := range clients {
		if cl.IsClosed() {
			continue
		}

		select {
		case cl.Message <- msg:
		default:
			// Client buffer full, drop the message
			log.Printf("client %s buffer full, dropping message", cl.ID)
		}
	}
}
