package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn      *connWrapper
	Message   chan *Message
	ID        string
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, id string) *Client {
	return &Client{
		conn:    newConnWrapper(conn),
		Message: make(chan *Message, 64), // buffered to avoid dead-locks on slow clients
		ID:      id,
	}
}

// ReadPump decodes join/leave signals until the connection drops, then
// unregisters the client from the hub.
func (c *Client) ReadPump(hub *Hub) {
	defer func() {
		hub.Unregister() <- c
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			break
		}

		var signal Signal
		if err := json.Unmarshal(raw, &signal); err != nil {
			c.trySend(NewError("", "malformed signal"))
			continue
		}

		switch signal.Action {
		case SignalJoinEvent:
			if signal.Room == "" {
				c.trySend(NewError("", "room is required"))
				continue
			}
			hub.JoinRoom(c, signal.Room)
		case SignalLeaveEvent:
			if signal.Room == "" {
				c.trySend(NewError("", "room is required"))
				continue
			}
			hub.LeaveRoom(c, signal.Room)
		default:
			c.trySend(NewError(signal.Room, "unknown action"))
		}
	}
}

// WritePump drains the message channel onto the socket until the channel
// is closed or a write fails.
func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error (client %s): %v", c.ID, err)
			break
		}
	}
}

// trySend queues msg without blocking. Messages to a closed or saturated
// client are dropped.
func (c *Client) trySend(msg *Message) {
	if c.IsClosed() {
		return
	}

	select {
	case c.Message <- msg:
	default:
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.Message)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
