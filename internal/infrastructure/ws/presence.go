package ws

import "sync"

// PresenceRegistry tracks which live connections are subscribed to which
// event room. It is entirely process-local and advisory: counts are read
// without coordinating with in-flight joins, which is acceptable because
// viewer counts are informational.
type PresenceRegistry struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]struct{}
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]struct{}),
	}
}

// AddConnection registers a live connection for global broadcasts.
func (p *PresenceRegistry) AddConnection(cl *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clients[cl] = struct{}{}
}

// Join subscribes cl to room. Re-joining is a no-op.
func (p *PresenceRegistry) Join(room string, cl *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	subscribers, ok := p.rooms[room]
	if !ok {
		subscribers = make(map[*Client]struct{})
		p.rooms[room] = subscribers
	}
	subscribers[cl] = struct{}{}
}

// Leave unsubscribes cl from room. Leaving a room cl never joined is a
// no-op. Empty room entries are kept; Count is what callers observe.
func (p *PresenceRegistry) Leave(room string, cl *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if subscribers, ok := p.rooms[room]; ok {
		delete(subscribers, cl)
	}
}

// Count returns the number of distinct live connections subscribed to room,
// zero for rooms nobody has joined.
func (p *PresenceRegistry) Count(room string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.rooms[room])
}

// RemoveConnectionEverywhere drops cl from every room it is subscribed to
// and from the global connection set. Used on disconnect, where the caller
// does not know which rooms the connection was in.
func (p *PresenceRegistry) RemoveConnectionEverywhere(cl *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, subscribers := range p.rooms {
		delete(subscribers, cl)
	}
	delete(p.clients, cl)
}

// RoomClients snapshots room's subscribers so broadcasts never hold the
// registry lock while writing to client buffers.
func (p *PresenceRegistry) RoomClients(room string) []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	subscribers := p.rooms[room]
	clients := make([]*Client, 0, len(subscribers))
	for cl := range subscribers {
		clients = append(clients, cl)
	}
	return clients
}

// AllClients snapshots every live connection.
func (p *PresenceRegistry) AllClients() []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	clients := make([]*Client, 0, len(p.clients))
	for cl := range p.clients {
		clients = append(clients, cl)
	}
	return clients
}
