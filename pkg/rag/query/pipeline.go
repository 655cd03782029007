// Package query answers a question against a notebook: embed, search,
// assemble bounded context, prompt the completion model, record the exchange.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"codelm-be/internal/constant"
	"codelm-be/internal/entity"
	"codelm-be/internal/pkg/logger"
	"codelm-be/pkg/embedding"
	"codelm-be/pkg/llm"
	"codelm-be/pkg/rag"
	"codelm-be/pkg/rag/prompt"
)

type Searcher interface {
	Search(ctx context.Context, collection string, embedding []float32, limit int, excludedSources []string) ([]*entity.ScoredSourceChunk, error)
}

// MessageStore records the finished exchange: the user's question and the
// model's reply, in that order.
type MessageStore interface {
	AppendExchange(ctx context.Context, question *entity.ChatMessage, reply *entity.ChatMessage) error
}

type Request struct {
	NotebookId      uuid.UUID
	UserId          uuid.UUID
	Question        string
	ExcludedSources []string
	History         []llm.Message
}

type Answer struct {
	Reply     string
	Responder string
	// Sources lists the display names whose chunks grounded the reply,
	// in rank order. Empty when the notebook had nothing relevant.
	Sources []string
}

type Pipeline struct {
	embedder        embedding.EmbeddingProvider
	searcher        Searcher
	llmProvider     llm.LLMProvider
	messages        MessageStore
	logger          logger.ILogger
	topK            int
	contextCharGoal int
}

func NewPipeline(
	embedder embedding.EmbeddingProvider,
	searcher Searcher,
	llmProvider llm.LLMProvider,
	messages MessageStore,
	logger logger.ILogger,
	topK int,
	contextCharLimit int,
) *Pipeline {
	if topK <= 0 {
		topK = 50
	}
	if contextCharLimit <= 0 {
		contextCharLimit = 15000
	}
	return &Pipeline{
		embedder:        embedder,
		searcher:        searcher,
		llmProvider:     llmProvider,
		messages:        messages,
		logger:          logger,
		topK:            topK,
		contextCharGoal: contextCharLimit,
	}
}

// Ask runs the full query pipeline. Failures before the completion call
// surface as errors; a safety rejection surfaces as *rag.BlockedError and
// writes no messages; a persistence failure after a successful completion is
// logged and the answer is still returned.
func (p *Pipeline) Ask(ctx context.Context, req Request) (*Answer, error) {
	queryEmbedding, err := p.embedder.Generate(ctx, req.Question, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w: %s", rag.ErrUnavailable, err.Error())
	}

	collection := rag.CollectionName(req.NotebookId.String())
	hits, err := p.searcher.Search(ctx, collection, queryEmbedding.Embedding.Values, p.topK, req.ExcludedSources)
	if err != nil {
		return nil, fmt.Errorf("search collection: %w: %s", rag.ErrUnavailable, err.Error())
	}

	retrieved := make([]prompt.RetrievedChunk, len(hits))
	for i, hit := range hits {
		retrieved[i] = prompt.RetrievedChunk{
			Source: hit.Chunk.Source,
			Text:   hit.Chunk.Document,
		}
	}

	contextBlock := prompt.AssembleContext(retrieved, p.contextCharGoal, constant.NoContextMarker)
	fullPrompt := prompt.NewBuilder(contextBlock, req.Question, req.History).Build()

	reply, err := p.llmProvider.Generate(ctx, fullPrompt)
	if err != nil {
		var blocked *rag.BlockedError
		if errors.As(err, &blocked) {
			return nil, blocked
		}
		return nil, fmt.Errorf("completion: %w: %s", rag.ErrUnavailable, err.Error())
	}

	answer := &Answer{
		Reply:     reply,
		Responder: p.llmProvider.ModelName(),
		Sources:   contextBlock.Sources,
	}

	p.recordExchange(ctx, req, answer)

	return answer, nil
}

// recordExchange persists the two message rows. The reply already exists from
// the caller's perspective, so a write failure is logged, not returned.
func (p *Pipeline) recordExchange(ctx context.Context, req Request, answer *Answer) {
	now := time.Now()
	userId := req.UserId
	question := &entity.ChatMessage{
		Id:         uuid.New(),
		NotebookId: req.NotebookId,
		UserId:     &userId,
		Role:       constant.ChatMessageRoleUser,
		Chat:       req.Question,
		CreatedAt:  now,
	}
	reply := &entity.ChatMessage{
		Id:         uuid.New(),
		NotebookId: req.NotebookId,
		Role:       constant.ChatMessageRoleModel,
		Chat:       answer.Reply,
		Responder:  answer.Responder,
		Sources:    answer.Sources,
		CreatedAt:  now.Add(time.Millisecond),
	}

	if err := p.messages.AppendExchange(ctx, question, reply); err != nil {
		p.logger.Error("query.pipeline", "failed to persist chat exchange", map[string]interface{}{
			"notebook_id": req.NotebookId.String(),
			"error":       (&rag.PersistenceError{Err: err}).Error(),
		})
	}
}
