package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/calebmori/gatherly/internal/domain"
	"github.com/calebmori/gatherly/internal/infrastructure/contracts"
	"github.com/calebmori/gatherly/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

// auditConsumer drains the audit queue and persists one audit-log document
// per lifecycle message.
type auditConsumer struct {
	rabbitmq  *messaging.RabbitMQ
	auditRepo domain.EventAuditRepository
}

func NewAuditConsumer(rabbitmq *messaging.RabbitMQ, auditRepo domain.EventAuditRepository) *auditConsumer {
	return &auditConsumer{
		rabbitmq:  rabbitmq,
		auditRepo: auditRepo,
	}
}

func (c *auditConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.AuditQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		var payload messaging.EventLifecycleData
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			log.Printf("Failed to unmarshal payload: %v", err)
			return err
		}

		auditLog := c.buildAuditLog(msg.RoutingKey, message.ActorID, payload.Event)
		if auditLog == nil {
			log.Printf("Unknown routing key %q, dropping message", msg.RoutingKey)
			return nil
		}

		return c.auditRepo.Log(ctx, auditLog)
	})
}

func (c *auditConsumer) buildAuditLog(routingKey, actorID string, event domain.Event) *domain.EventAuditLog {
	switch routingKey {
	case contracts.EventCreated:
		return domain.NewEventCreatedLog(event.ID, event.Creator, event.Capacity)
	case contracts.EventUpdated:
		return domain.NewEventUpdatedLog(event.ID, actorID)
	case contracts.EventDeleted:
		return domain.NewEventDeletedLog(event.ID, len(event.Attendees))
	case contracts.AttendeeJoined:
		return domain.NewAttendeeJoinedLog(event.ID, actorID, len(event.Attendees))
	case contracts.AttendeeLeft:
		return domain.NewAttendeeLeftLog(event.ID, actorID, len(event.Attendees))
	}
	return nil
}
