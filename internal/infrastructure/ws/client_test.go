package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientClose(t *testing.T) {
	cl := newTestClient("a")

	assert.False(t, cl.IsClosed())

	cl.Close()
	assert.True(t, cl.IsClosed())

	// Closing twice must not panic on the already-closed channel.
	cl.Close()
}

func TestClientTrySend(t *testing.T) {
	cl := newTestClient("a")

	cl.trySend(NewError("", "boom"))

	msg := <-cl.Message
	assert.Equal(t, ErrorEvent, msg.Event)
}

func TestClientTrySendAfterClose(t *testing.T) {
	cl := newTestClient("a")
	cl.Close()

	// Must not panic or block.
	cl.trySend(NewError("", "boom"))
}

func TestClientTrySendDropsWhenFull(t *testing.T) {
	cl := &Client{
		Message: make(chan *Message), // unbuffered, nobody reading
		ID:      "full",
	}

	cl.trySend(NewError("", "boom")) // returns immediately
}
