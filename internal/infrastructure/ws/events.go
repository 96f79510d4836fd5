package ws

// Server → client event names.
const (
	EventUpdated = "eventUpdated"
	EventDeleted = "eventDeleted"
	ViewerUpdate = "viewerUpdate"

	ErrorEvent = "error"
)

// Client → server signal actions.
const (
	SignalJoinEvent  = "joinEvent"
	SignalLeaveEvent = "leaveEvent"
)
