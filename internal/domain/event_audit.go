package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventAuditType string

const (
	AuditEventCreated   EventAuditType = "event_created"
	AuditEventUpdated   EventAuditType = "event_updated"
	AuditEventDeleted   EventAuditType = "event_deleted"
	AuditAttendeeJoined EventAuditType = "attendee_joined"
	AuditAttendeeLeft   EventAuditType = "attendee_left"
)

type EventAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	EventID   string         `bson:"event_id" json:"eventId"`
	AuditType EventAuditType `bson:"audit_type" json:"auditType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type EventAuditRepository interface {
	Log(ctx context.Context, log *EventAuditLog) error
	GetByEventID(ctx context.Context, eventID string, limit int) ([]EventAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func NewEventCreatedLog(eventID, creatorID string, capacity int) *EventAuditLog {
	return &EventAuditLog{
		ID:        uuid.NewString(),
		EventID:   eventID,
		AuditType: AuditEventCreated,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]any{
			"creator":  creatorID,
			"capacity": capacity,
		},
	}
}

func NewEventUpdatedLog(eventID, callerID string) *EventAuditLog {
	return &EventAuditLog{
		ID:        uuid.NewString(),
		EventID:   eventID,
		AuditType: AuditEventUpdated,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]any{
			"caller": callerID,
		},
	}
}

func NewEventDeletedLog(eventID string, attendeeCount int) *EventAuditLog {
	return &EventAuditLog{
		ID:        uuid.NewString(),
		EventID:   eventID,
		AuditType: AuditEventDeleted,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]any{
			"attendee_count": attendeeCount,
		},
	}
}

func NewAttendeeJoinedLog(eventID, userID string, attendeeCount int) *EventAuditLog {
	return &EventAuditLog{
		ID:        uuid.NewString(),
		EventID:   eventID,
		AuditType: AuditAttendeeJoined,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]any{
			"user":           userID,
			"attendee_count": attendeeCount,
		},
	}
}

func NewAttendeeLeftLog(eventID, userID string, attendeeCount int) *EventAuditLog {
	return &EventAuditLog{
		ID:        uuid.NewString(),
		EventID:   eventID,
		AuditType: AuditAttendeeLeft,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]any{
			"user":           userID,
			"attendee_count": attendeeCount,
		},
	}
}
