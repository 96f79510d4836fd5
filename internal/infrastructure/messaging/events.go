package messaging

import "github.com/calebmori/gatherly/internal/domain"

const (
	AuditQueue      = "event_audit"
	DeadLetterQueue = "dead_letter_queue"
)

type EventLifecycleData struct {
	Event domain.Event `json:"event"`
}
