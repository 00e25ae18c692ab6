package order

import (
	"time"

	"github.com/google/uuid"
)

// StatusLogEntry is one row of an order's append-only timeline.
type StatusLogEntry struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Status    Status
	Timestamp time.Time
}

// Transition is a status change the Timeline Logger must record.
type Transition struct {
	OrderID    uuid.UUID
	ExternalID string
	From       Status
	To         Status
	At         time.Time
}

// StatusChanged is the integration event published after a transition commits.
type StatusChanged struct {
	ExternalID string    `json:"external_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (t Transition) Event() StatusChanged {
	from := ""
	if t.From != Unknown {
		from = t.From.String()
	}
	return StatusChanged{ExternalID: t.ExternalID, From: from, To: t.To.String(), OccurredAt: t.At}
}
