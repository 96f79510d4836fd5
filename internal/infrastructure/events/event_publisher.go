package events

import (
	"context"
	"encoding/json"

	"github.com/calebmori/gatherly/internal/domain"
	"github.com/calebmori/gatherly/internal/infrastructure/contracts"
	"github.com/calebmori/gatherly/internal/infrastructure/messaging"
)

// EventPublisher pushes event lifecycle messages onto the broker. Publish
// failures are for the caller to log; they never fail the request that
// triggered them.
type EventPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewEventPublisher(rabbitmq *messaging.RabbitMQ) *EventPublisher {
	return &EventPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *EventPublisher) publish(ctx context.Context, routingKey, actorID string, event domain.Event) error {
	payload := messaging.EventLifecycleData{
		Event: event,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		ActorID: actorID,
		Data:    data,
	})
}

func (p *EventPublisher) PublishEventCreated(ctx context.Context, event domain.Event) error {
	return p.publish(ctx, contracts.EventCreated, event.Creator, event)
}

func (p *EventPublisher) PublishEventUpdated(ctx context.Context, event domain.Event, actorID string) error {
	return p.publish(ctx, contracts.EventUpdated, actorID, event)
}

func (p *EventPublisher) PublishEventDeleted(ctx context.Context, event domain.Event, actorID string) error {
	return p.publish(ctx, contracts.EventDeleted, actorID, event)
}

func (p *EventPublisher) PublishAttendeeJoined(ctx context.Context, event domain.Event, userID string) error {
	return p.publish(ctx, contracts.AttendeeJoined, userID, event)
}

func (p *EventPublisher) PublishAttendeeLeft(ctx context.Context, event domain.Event, userID string) error {
	return p.publish(ctx, contracts.AttendeeLeft, userID, event)
}
