// Package ingest turns an uploaded source file into indexed vector chunks:
// read to text, split, embed, upsert. One pipeline instance is shared by all
// workers; it holds only stateless clients.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"codelm-be/internal/entity"
	"codelm-be/internal/pkg/logger"
	"codelm-be/pkg/embedding"
	"codelm-be/pkg/rag"
	"codelm-be/pkg/textsplit"
)

type Reader interface {
	Read(mimeType string, data []byte) (string, error)
}

type Splitter interface {
	Split(text string) []textsplit.Chunk
}

type Index interface {
	UpsertBulk(ctx context.Context, chunks []*entity.SourceChunk) error
	DeleteBySource(ctx context.Context, collection string, source string) error
}

type Pipeline struct {
	reader   Reader
	splitter Splitter
	embedder embedding.EmbeddingProvider
	index    Index
	logger   logger.ILogger
}

func NewPipeline(
	reader Reader,
	splitter Splitter,
	embedder embedding.EmbeddingProvider,
	index Index,
	logger logger.ILogger,
) *Pipeline {
	return &Pipeline{
		reader:   reader,
		splitter: splitter,
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// IngestFile runs the full pipeline for one file and returns the number of
// chunks indexed. Re-running it for the same file converges to the same
// vector set: stale chunks for the source are removed before the fresh set is
// upserted, and upsert identity is (collection, source, offset).
//
// A chunk whose embedding fails is skipped and logged rather than aborting
// the file; an unreadable or unsupported file fails the whole file.
func (p *Pipeline) IngestFile(ctx context.Context, notebookId uuid.UUID, source *entity.SourceFile, data []byte) (int, error) {
	text, err := p.reader.Read(source.MimeType, data)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", source.DisplayName, err)
	}

	collection := rag.CollectionName(notebookId.String())
	chunks := p.splitter.Split(text)
	if len(chunks) == 0 {
		// Empty document: still clear anything a previous version indexed.
		if err := p.index.DeleteBySource(ctx, collection, source.DisplayName); err != nil {
			return 0, fmt.Errorf("clear stale chunks for %s: %w", source.DisplayName, err)
		}
		return 0, nil
	}

	records := p.embedChunks(ctx, collection, source.DisplayName, chunks)
	if len(records) == 0 {
		return 0, fmt.Errorf("embed %s: %w", source.DisplayName, rag.ErrUnavailable)
	}

	if err := p.index.DeleteBySource(ctx, collection, source.DisplayName); err != nil {
		return 0, fmt.Errorf("clear stale chunks for %s: %w", source.DisplayName, err)
	}
	if err := p.index.UpsertBulk(ctx, records); err != nil {
		return 0, fmt.Errorf("upsert chunks for %s: %w", source.DisplayName, err)
	}

	return len(records), nil
}

// DeleteFile reverses ingestion for one source: every chunk whose source
// metadata exactly matches the display name is removed.
func (p *Pipeline) DeleteFile(ctx context.Context, notebookId uuid.UUID, displayName string) error {
	collection := rag.CollectionName(notebookId.String())
	return p.index.DeleteBySource(ctx, collection, displayName)
}

// embedChunks embeds the batch in one round trip when possible, falling back
// to per-chunk calls so a single bad chunk costs only itself.
func (p *Pipeline) embedChunks(ctx context.Context, collection, source string, chunks []textsplit.Chunk) []*entity.SourceChunk {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	records := make([]*entity.SourceChunk, 0, len(chunks))

	responses, err := p.embedder.GenerateBatch(ctx, texts, embedding.TaskRetrievalDocument)
	if err == nil && len(responses) == len(chunks) {
		for i, res := range responses {
			records = append(records, p.newRecord(collection, source, chunks[i], res.Embedding.Values))
		}
		return records
	}

	if err != nil {
		p.logger.Warn("ingest.pipeline", "batch embedding failed, retrying per chunk", map[string]interface{}{
			"source": source,
			"error":  err.Error(),
		})
	}

	for _, chunk := range chunks {
		res, err := p.embedder.Generate(ctx, chunk.Text, embedding.TaskRetrievalDocument)
		if err != nil {
			p.logger.Warn("ingest.pipeline", "skipping chunk, embedding failed", map[string]interface{}{
				"source": source,
				"offset": chunk.StartOffset,
				"error":  err.Error(),
			})
			continue
		}
		records = append(records, p.newRecord(collection, source, chunk, res.Embedding.Values))
	}
	return records
}

func (p *Pipeline) newRecord(collection, source string, chunk textsplit.Chunk, vector []float32) *entity.SourceChunk {
	return &entity.SourceChunk{
		Id:             uuid.New(),
		Collection:     collection,
		Source:         source,
		ChunkOffset:    chunk.StartOffset,
		Document:       chunk.Text,
		EmbeddingValue: vector,
	}
}
