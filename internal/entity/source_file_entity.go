package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ingestion lifecycle of an uploaded source. A file becomes Ready only after
// its chunks are embedded and indexed; Failed is terminal and logged.
const (
	SourceStatusPending = "pending"
	SourceStatusReady   = "ready"
	SourceStatusFailed  = "failed"
)

type SourceFile struct {
	Id         uuid.UUID
	NotebookId uuid.UUID
	// StorageKey is the randomized blob name; DisplayName is what the user
	// uploaded. Chunk metadata always carries DisplayName, never StorageKey,
	// because deletion-by-source matches on it.
	StorageKey  string
	DisplayName string
	MimeType    string
	SizeBytes   int64
	PublicURL   string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
}
