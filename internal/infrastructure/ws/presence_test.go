package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(id string) *Client {
	return &Client{
		Message: make(chan *Message, 64),
		ID:      id,
	}
}

func TestPresenceRegistryCount(t *testing.T) {
	registry := NewPresenceRegistry()

	assert.Equal(t, 0, registry.Count("event-1"))

	a := newTestClient("a")
	b := newTestClient("b")

	registry.Join("event-1", a)
	registry.Join("event-1", b)
	assert.Equal(t, 2, registry.Count("event-1"))

	// Re-joining the same room does not inflate the count.
	registry.Join("event-1", a)
	assert.Equal(t, 2, registry.Count("event-1"))

	registry.Leave("event-1", a)
	assert.Equal(t, 1, registry.Count("event-1"))

	// Leaving a room the client never joined is a no-op.
	registry.Leave("event-2", b)
	assert.Equal(t, 1, registry.Count("event-1"))
	assert.Equal(t, 0, registry.Count("event-2"))
}

func TestPresenceRegistryRoomsAreIndependent(t *testing.T) {
	registry := NewPresenceRegistry()

	a := newTestClient("a")
	registry.Join("event-1", a)
	registry.Join("event-2", a)

	assert.Equal(t, 1, registry.Count("event-1"))
	assert.Equal(t, 1, registry.Count("event-2"))

	registry.Leave("event-1", a)
	assert.Equal(t, 0, registry.Count("event-1"))
	assert.Equal(t, 1, registry.Count("event-2"))
}

func TestPresenceRegistryRemoveConnectionEverywhere(t *testing.T) {
	registry := NewPresenceRegistry()

	a := newTestClient("a")
	b := newTestClient("b")

	registry.AddConnection(a)
	registry.AddConnection(b)
	registry.Join("event-1", a)
	registry.Join("event-2", a)
	registry.Join("event-1", b)

	registry.RemoveConnectionEverywhere(a)

	assert.Equal(t, 1, registry.Count("event-1"))
	assert.Equal(t, 0, registry.Count("event-2"))
	assert.Len(t, registry.AllClients(), 1)
}

func TestPresenceRegistrySnapshots(t *testing.T) {
	registry := NewPresenceRegistry()

	a := newTestClient("a")
	registry.AddConnection(a)
	registry.Join("event-1", a)

	assert.Len(t, registry.RoomClients("event-1"), 1)
	assert.Empty(t, registry.RoomClients("event-2"))
	assert.Len(t, registry.AllClients(), 1)
}
