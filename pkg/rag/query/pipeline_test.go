package query

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"codelm-be/internal/constant"
	"codelm-be/internal/entity"
	"codelm-be/pkg/embedding"
	"codelm-be/pkg/llm"
	"codelm-be/pkg/rag"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.5, 0.5}},
	}, nil
}

func (f *fakeEmbedder) GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*embedding.EmbeddingResponse, error) {
	return nil, errors.New("not used by the query path")
}

type fakeSearcher struct {
	hits []*entity.ScoredSourceChunk
	err  error

	gotCollection string
	gotLimit      int
	gotExcluded   []string
}

func (f *fakeSearcher) Search(ctx context.Context, collection string, embedding []float32, limit int, excludedSources []string) ([]*entity.ScoredSourceChunk, error) {
	f.gotCollection = collection
	f.gotLimit = limit
	f.gotExcluded = excludedSources
	return f.hits, f.err
}

type fakeLLM struct {
	reply string
	err   error

	gotPrompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.gotPrompt = prompt
	return f.reply, f.err
}

func (f *fakeLLM) ModelName() string {
	return "gemini-2.0-flash"
}

type fakeMessageStore struct {
	err      error
	question *entity.ChatMessage
	reply    *entity.ChatMessage
	calls    int
}

func (f *fakeMessageStore) AppendExchange(ctx context.Context, question *entity.ChatMessage, reply *entity.ChatMessage) error {
	f.calls++
	f.question = question
	f.reply = reply
	return f.err
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func hit(source, document string, similarity float64) *entity.ScoredSourceChunk {
	return &entity.ScoredSourceChunk{
		Chunk:      &entity.SourceChunk{Source: source, Document: document},
		Similarity: similarity,
	}
}

func TestAskAnswersAndRecordsExchange(t *testing.T) {
	searcher := &fakeSearcher{hits: []*entity.ScoredSourceChunk{
		hit("a.pdf", "alpha facts", 0.92),
		hit("b.pdf", "beta facts", 0.87),
		hit("a.pdf", "more alpha", 0.81),
	}}
	store := &fakeMessageStore{}
	pipeline := NewPipeline(&fakeEmbedder{}, searcher, &fakeLLM{reply: "the answer"}, store, noopLogger{}, 50, 15000)

	req := Request{
		NotebookId: uuid.New(),
		UserId:     uuid.New(),
		Question:   "what is alpha?",
	}
	answer, err := pipeline.Ask(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, "the answer", answer.Reply)
	assert.Equal(t, "gemini-2.0-flash", answer.Responder)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, answer.Sources)

	assert.Equal(t, rag.CollectionName(req.NotebookId.String()), searcher.gotCollection)
	assert.Equal(t, 50, searcher.gotLimit)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, constant.ChatMessageRoleUser, store.question.Role)
	assert.Equal(t, "what is alpha?", store.question.Chat)
	assert.NotNil(t, store.question.UserId)
	assert.Equal(t, constant.ChatMessageRoleModel, store.reply.Role)
	assert.Nil(t, store.reply.UserId)
	assert.Equal(t, "gemini-2.0-flash", store.reply.Responder)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, store.reply.Sources)
	assert.True(t, store.reply.CreatedAt.After(store.question.CreatedAt))
}

func TestAskEmptyNotebookIsNotAnError(t *testing.T) {
	searcher := &fakeSearcher{hits: nil}
	provider := &fakeLLM{reply: "I don't have enough information in this notebook."}
	store := &fakeMessageStore{}
	pipeline := NewPipeline(&fakeEmbedder{}, searcher, provider, store, noopLogger{}, 50, 15000)

	answer, err := pipeline.Ask(context.Background(), Request{NotebookId: uuid.New(), UserId: uuid.New(), Question: "anything?"})

	assert.NoError(t, err)
	assert.Empty(t, answer.Sources)
	// The no-context marker still reaches the model.
	assert.Contains(t, provider.gotPrompt, constant.NoContextMarker)
	assert.Equal(t, 1, store.calls)
}

func TestAskForwardsExclusions(t *testing.T) {
	searcher := &fakeSearcher{}
	pipeline := NewPipeline(&fakeEmbedder{}, searcher, &fakeLLM{reply: "ok"}, &fakeMessageStore{}, noopLogger{}, 50, 15000)

	_, err := pipeline.Ask(context.Background(), Request{
		NotebookId:      uuid.New(),
		UserId:          uuid.New(),
		Question:        "q",
		ExcludedSources: []string{"skip-me.pdf", "and-me.txt"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"skip-me.pdf", "and-me.txt"}, searcher.gotExcluded)
}

func TestAskBlockedCompletionWritesNothing(t *testing.T) {
	store := &fakeMessageStore{}
	provider := &fakeLLM{err: &rag.BlockedError{Reason: "SAFETY"}}
	pipeline := NewPipeline(&fakeEmbedder{}, &fakeSearcher{}, provider, store, noopLogger{}, 50, 15000)

	answer, err := pipeline.Ask(context.Background(), Request{NotebookId: uuid.New(), UserId: uuid.New(), Question: "q"})

	assert.Nil(t, answer)
	var blocked *rag.BlockedError
	assert.ErrorAs(t, err, &blocked)
	assert.Equal(t, "SAFETY", blocked.Reason)
	assert.Equal(t, 0, store.calls)
}

func TestAskPersistenceFailureStillReturnsAnswer(t *testing.T) {
	store := &fakeMessageStore{err: errors.New("database gone")}
	pipeline := NewPipeline(&fakeEmbedder{}, &fakeSearcher{}, &fakeLLM{reply: "still here"}, store, noopLogger{}, 50, 15000)

	answer, err := pipeline.Ask(context.Background(), Request{NotebookId: uuid.New(), UserId: uuid.New(), Question: "q"})

	assert.NoError(t, err)
	assert.Equal(t, "still here", answer.Reply)
	assert.Equal(t, 1, store.calls)
}

func TestAskEmbeddingFailureIsUnavailable(t *testing.T) {
	pipeline := NewPipeline(&fakeEmbedder{err: errors.New("backend down")}, &fakeSearcher{}, &fakeLLM{}, &fakeMessageStore{}, noopLogger{}, 50, 15000)

	_, err := pipeline.Ask(context.Background(), Request{NotebookId: uuid.New(), UserId: uuid.New(), Question: "q"})

	assert.ErrorIs(t, err, rag.ErrUnavailable)
}

func TestAskSearchFailureIsUnavailable(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("index gone")}
	pipeline := NewPipeline(&fakeEmbedder{}, searcher, &fakeLLM{}, &fakeMessageStore{}, noopLogger{}, 50, 15000)

	_, err := pipeline.Ask(context.Background(), Request{NotebookId: uuid.New(), UserId: uuid.New(), Question: "q"})

	assert.ErrorIs(t, err, rag.ErrUnavailable)
}
