package domain

import "time"

// Stream identifies one of the record streams a terminal keeps in sync.
type Stream string

const (
	StreamCategories Stream = "categories"
	StreamDishes     Stream = "dishes"
	StreamTables     Stream = "tables"
	StreamLines      Stream = "order_lines"
)

// EventKind is the change granularity published for a stream.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// ChangeEvent is published after every store write and consumed by every
// terminal's reconciler.
type ChangeEvent struct {
	MessageID  string    `json:"message_id"`
	Stream     Stream    `json:"stream"`
	Kind       EventKind `json:"kind"`
	RecordID   int       `json:"record_id,omitempty"`
	TableID    int       `json:"table_id,omitempty"`
	Origin     string    `json:"origin"`
	OccurredAt time.Time `json:"occurred_at"`
}
