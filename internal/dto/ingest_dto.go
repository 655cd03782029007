package dto

import "github.com/google/uuid"

// PublishIngestSourceMessage is the queue payload asking the consumer to
// index one uploaded file.
type PublishIngestSourceMessage struct {
	FileId     uuid.UUID `json:"file_id"`
	NotebookId uuid.UUID `json:"notebook_id"`
	UserId     uuid.UUID `json:"user_id"`
}
