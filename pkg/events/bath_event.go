package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
)

// Bath lifecycle event types.
const (
	BathCreated = "bath.created"
	BathUpdated = "bath.updated"
	BathDeleted = "bath.deleted"
)

// BathEvent is the JSON payload put on the bath events queue.
// Bath is omitted for deletions.
type BathEvent struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	BathID     int64        `json:"bathId"`
	Bath       *entity.Bath `json:"bath,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// NewBathEvent stamps a new event with a random id.
func NewBathEvent(typ string, bathID int64, bath *entity.Bath, at time.Time) BathEvent {
	return BathEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		BathID:     bathID,
		Bath:       bath,
		OccurredAt: at.UTC(),
	}
}
