package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SOURCE_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers and rebuilt by
// subscribers from the wire payload.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Lifecycle event codes emitted by the ingestion side.
const (
	TypeSourceIngested     = "SOURCE_INGESTED"
	TypeSourceIngestFailed = "SOURCE_INGEST_FAILED"
)

// NewSourceIngested reports a file that finished indexing.
func NewSourceIngested(notebookId, userId, fileId, displayName string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeSourceIngested,
		Data: map[string]interface{}{
			"notebook_id":  notebookId,
			"user_id":      userId,
			"file_id":      fileId,
			"display_name": displayName,
			"chunk_count":  chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewSourceIngestFailed reports a file whose ingestion failed terminally.
func NewSourceIngestFailed(notebookId, userId, fileId, displayName, reason string) Event {
	return BaseEvent{
		Type: TypeSourceIngestFailed,
		Data: map[string]interface{}{
			"notebook_id":  notebookId,
			"user_id":      userId,
			"file_id":      fileId,
			"display_name": displayName,
			"reason":       reason,
		},
		OccurredAt: time.Now(),
	}
}
