package contract

import (
	"context"

	"codelm-be/internal/entity"
)

// SourceChunkRepository is the vector index. Chunks live in per-notebook
// collections; every operation is scoped to one collection.
type SourceChunkRepository interface {
	// UpsertBulk inserts chunks, replacing any existing chunk with the same
	// (collection, source, chunk_offset) identity. Last write wins.
	UpsertBulk(ctx context.Context, chunks []*entity.SourceChunk) error

	// Search returns up to limit chunks nearest to the query vector by cosine
	// distance, skipping chunks whose source is in excludedSources. A
	// collection with no chunks yields an empty slice, not an error.
	// Equal-distance ties break by ascending id so results are deterministic.
	Search(ctx context.Context, collection string, embedding []float32, limit int, excludedSources []string) ([]*entity.ScoredSourceChunk, error)

	// DeleteBySource removes every chunk whose source exactly matches source.
	// Exact match only: a source name that prefixes another must not
	// over-delete.
	DeleteBySource(ctx context.Context, collection string, source string) error

	// DeleteByCollection drops a notebook's entire collection.
	DeleteByCollection(ctx context.Context, collection string) error

	CountBySource(ctx context.Context, collection string, source string) (int64, error)
	CountByCollection(ctx context.Context, collection string) (int64, error)
}
