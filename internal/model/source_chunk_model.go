package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// SourceChunk rows are hard-deleted, never soft-deleted: an orphaned chunk
// that still matches searches would resurrect deleted source content.
type SourceChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Collection     string          `gorm:"type:varchar(127);not null;uniqueIndex:idx_chunk_identity,priority:1;index"`
	Source         string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_chunk_identity,priority:2"`
	ChunkOffset    int             `gorm:"not null;default:0;uniqueIndex:idx_chunk_identity,priority:3"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (SourceChunk) TableName() string {
	return "source_chunks"
}
