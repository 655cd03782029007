package entity

import (
	"time"

	"github.com/google/uuid"
)

// SourceChunk is one embedded slice of a source document. Chunks only exist
// inside the vector index; they are never exposed through the API directly.
type SourceChunk struct {
	Id uuid.UUID
	// Collection partitions the index per notebook. It is a pure function of
	// the notebook id (see pkg/rag.CollectionName).
	Collection string
	// Source is the originating file's display name.
	Source string
	// ChunkOffset is the rune offset of the chunk's first character in the
	// normalized source text. (Collection, Source, ChunkOffset) identifies a
	// chunk for upsert purposes.
	ChunkOffset    int
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}

// ScoredSourceChunk pairs a chunk with its cosine similarity to a query.
type ScoredSourceChunk struct {
	Chunk      *SourceChunk
	Similarity float64
}
