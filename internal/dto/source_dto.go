package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadSourceResponse confirms a file was accepted. Indexing happens in the
// background; Status starts at "pending" and the websocket channel reports
// progress.
type UploadSourceResponse struct {
	Id          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	PublicURL   string    `json:"public_url"`
}

type UploadSourcesResponse struct {
	Accepted []UploadSourceResponse `json:"accepted"`
	Rejected []RejectedSource       `json:"rejected"`
}

type RejectedSource struct {
	DisplayName string `json:"display_name"`
	Reason      string `json:"reason"`
}

type ShowSourceResponse struct {
	Id          uuid.UUID  `json:"id"`
	DisplayName string     `json:"display_name"`
	MimeType    string     `json:"mime_type"`
	SizeBytes   int64      `json:"size_bytes"`
	Status      string     `json:"status"`
	PublicURL   string     `json:"public_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type DeleteSourceRequest struct {
	NotebookId  uuid.UUID
	DisplayName string `json:"display_name" validate:"required"`
}
