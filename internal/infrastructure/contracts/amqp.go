package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	ActorID string `json:"actorId"`
	Data    []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventCreated   = "event.created"
	EventUpdated   = "event.updated"
	EventDeleted   = "event.deleted"
	AttendeeJoined = "attendee.joined"
	AttendeeLeft   = "attendee.left"
)
