package ws

import "time"

// Message is the envelope for everything pushed to connected clients.
// An empty Room means the message is addressed to every live connection.
type Message struct {
	Event string `json:"event"`
	Room  string `json:"room,omitempty"`
	Data  any    `json:"data"`
}

// Signal is what clients send over the socket to enter or leave a
// per-event broadcast room.
type Signal struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

// Payload structs
type ViewerUpdatePayload struct {
	Room        string `json:"room"`
	ViewerCount int    `json:"viewerCount"`
	Timestamp   string `json:"timestamp"`
}

type EventDeletedPayload struct {
	EventID string `json:"eventId"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func NewViewerUpdate(room string, viewerCount int) *Message {
	return &Message{
		Event: ViewerUpdate,
		Room:  room,
		Data: ViewerUpdatePayload{
			Room:        room,
			ViewerCount: viewerCount,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// NewEventUpdated carries the full event object, viewer count included.
// room is empty when the update should reach every connected client.
func NewEventUpdated(room string, event any) *Message {
	return &Message{
		Event: EventUpdated,
		Room:  room,
		Data:  event,
	}
}

func NewEventDeleted(eventID string) *Message {
	return &Message{
		Event: EventDeleted,
		Data: EventDeletedPayload{
			EventID: eventID,
		},
	}
}

func NewError(room, message string) *Message {
	return &Message{
		Event: ErrorEvent,
		Room:  room,
		Data: ErrorPayload{
			Message: message,
		},
	}
}
