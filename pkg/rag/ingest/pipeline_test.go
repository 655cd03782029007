package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"codelm-be/internal/entity"
	"codelm-be/pkg/embedding"
	"codelm-be/pkg/rag"
	"codelm-be/pkg/textsplit"
)

type fakeReader struct {
	text string
	err  error
}

func (f *fakeReader) Read(mimeType string, data []byte) (string, error) {
	return f.text, f.err
}

type fakeSplitter struct {
	chunks []textsplit.Chunk
}

func (f *fakeSplitter) Split(text string) []textsplit.Chunk {
	return f.chunks
}

// fakeEmbedder fails the batch call when batchErr is set, and fails individual
// texts listed in failTexts.
type fakeEmbedder struct {
	batchErr  error
	failTexts map[string]bool
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.failTexts[text] {
		return nil, errors.New("embedding backend refused")
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

func (f *fakeEmbedder) GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*embedding.EmbeddingResponse, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	responses := make([]*embedding.EmbeddingResponse, len(texts))
	for i := range texts {
		responses[i] = &embedding.EmbeddingResponse{
			Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
		}
	}
	return responses, nil
}

// fakeIndex records the order of calls so tests can assert delete-then-upsert.
type fakeIndex struct {
	calls    []string
	upserted []*entity.SourceChunk
	deleted  []string
}

func (f *fakeIndex) UpsertBulk(ctx context.Context, chunks []*entity.SourceChunk) error {
	f.calls = append(f.calls, "upsert")
	f.upserted = append(f.upserted, chunks...)
	return nil
}

func (f *fakeIndex) DeleteBySource(ctx context.Context, collection string, source string) error {
	f.calls = append(f.calls, "delete")
	f.deleted = append(f.deleted, collection+"/"+source)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func chunksOf(texts ...string) []textsplit.Chunk {
	chunks := make([]textsplit.Chunk, len(texts))
	offset := 0
	for i, text := range texts {
		chunks[i] = textsplit.Chunk{Text: text, StartOffset: offset}
		offset += len([]rune(text))
	}
	return chunks
}

func testSource() *entity.SourceFile {
	return &entity.SourceFile{
		Id:          uuid.New(),
		DisplayName: "report.pdf",
		MimeType:    "application/pdf",
	}
}

func TestIngestFileIndexesAllChunks(t *testing.T) {
	index := &fakeIndex{}
	pipeline := NewPipeline(
		&fakeReader{text: "some text"},
		&fakeSplitter{chunks: chunksOf("alpha", "beta", "gamma")},
		&fakeEmbedder{},
		index,
		noopLogger{},
	)

	notebookId := uuid.New()
	count, err := pipeline.IngestFile(context.Background(), notebookId, testSource(), []byte("raw"))

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, index.upserted, 3)
	// Stale chunks are cleared before the fresh set lands.
	assert.Equal(t, []string{"delete", "upsert"}, index.calls)

	collection := rag.CollectionName(notebookId.String())
	for _, record := range index.upserted {
		assert.Equal(t, collection, record.Collection)
		assert.Equal(t, "report.pdf", record.Source)
		assert.NotEmpty(t, record.EmbeddingValue)
	}
	assert.Equal(t, 0, index.upserted[0].ChunkOffset)
	assert.Equal(t, 5, index.upserted[1].ChunkOffset)
}

func TestIngestFileUnreadableFails(t *testing.T) {
	index := &fakeIndex{}
	pipeline := NewPipeline(
		&fakeReader{err: rag.ErrUnsupportedInput},
		&fakeSplitter{},
		&fakeEmbedder{},
		index,
		noopLogger{},
	)

	count, err := pipeline.IngestFile(context.Background(), uuid.New(), testSource(), []byte("raw"))

	assert.ErrorIs(t, err, rag.ErrUnsupportedInput)
	assert.Equal(t, 0, count)
	assert.Empty(t, index.calls)
}

func TestIngestFileEmptyTextClearsStaleChunks(t *testing.T) {
	index := &fakeIndex{}
	pipeline := NewPipeline(
		&fakeReader{text: ""},
		&fakeSplitter{chunks: nil},
		&fakeEmbedder{},
		index,
		noopLogger{},
	)

	count, err := pipeline.IngestFile(context.Background(), uuid.New(), testSource(), []byte("raw"))

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, []string{"delete"}, index.calls)
}

func TestIngestFileBatchFailureFallsBackPerChunk(t *testing.T) {
	index := &fakeIndex{}
	pipeline := NewPipeline(
		&fakeReader{text: "some text"},
		&fakeSplitter{chunks: chunksOf("alpha", "beta", "gamma")},
		&fakeEmbedder{
			batchErr:  errors.New("batch endpoint down"),
			failTexts: map[string]bool{"beta": true},
		},
		index,
		noopLogger{},
	)

	count, err := pipeline.IngestFile(context.Background(), uuid.New(), testSource(), []byte("raw"))

	// The failed chunk is skipped, not fatal.
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, index.upserted, 2)
	assert.Equal(t, "alpha", index.upserted[0].Document)
	assert.Equal(t, "gamma", index.upserted[1].Document)
}

func TestIngestFileAllEmbeddingsFail(t *testing.T) {
	index := &fakeIndex{}
	pipeline := NewPipeline(
		&fakeReader{text: "some text"},
		&fakeSplitter{chunks: chunksOf("alpha", "beta")},
		&fakeEmbedder{
			batchErr:  errors.New("batch endpoint down"),
			failTexts: map[string]bool{"alpha": true, "beta": true},
		},
		index,
		noopLogger{},
	)

	count, err := pipeline.IngestFile(context.Background(), uuid.New(), testSource(), []byte("raw"))

	assert.ErrorIs(t, err, rag.ErrUnavailable)
	assert.Equal(t, 0, count)
	assert.Empty(t, index.calls)
}

func TestDeleteFileRemovesBySource(t *testing.T) {
	index := &fakeIndex{}
	pipeline := NewPipeline(&fakeReader{}, &fakeSplitter{}, &fakeEmbedder{}, index, noopLogger{})

	notebookId := uuid.New()
	err := pipeline.DeleteFile(context.Background(), notebookId, "report.pdf")

	assert.NoError(t, err)
	assert.Equal(t, []string{rag.CollectionName(notebookId.String()) + "/report.pdf"}, index.deleted)
}
