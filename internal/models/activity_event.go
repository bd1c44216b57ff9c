package models

import "time"

// ActivityEvent is a single entry in the append-only activity log.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // UPLOAD | PLOT | DELETE | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
