package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"codelm-be/internal/constant"
	"codelm-be/internal/dto"
	"codelm-be/internal/entity"
	"codelm-be/internal/repository/specification"
	"codelm-be/internal/repository/unitofwork"
	"codelm-be/pkg/llm"
	"codelm-be/pkg/rag"
	"codelm-be/pkg/rag/query"
)

// historyWindow caps how many prior turns are replayed into the prompt.
const historyWindow = 20

type IChatService interface {
	Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error)
	History(ctx context.Context, userId, notebookId uuid.UUID, limit, offset int) (*dto.ChatHistoryResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   *query.Pipeline
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline *query.Pipeline,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
	}
}

func (s *chatService) Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, fmt.Errorf("notebook %s: %w", req.NotebookId, rag.ErrNotFound)
	}

	history, err := s.loadHistory(ctx, uow, req.NotebookId)
	if err != nil {
		return nil, err
	}

	answer, err := s.pipeline.Ask(ctx, query.Request{
		NotebookId:      req.NotebookId,
		UserId:          userId,
		Question:        req.Question,
		ExcludedSources: req.ExcludedSources,
		History:         history,
	})
	if err != nil {
		return nil, err
	}

	return &dto.AskResponse{
		Reply:     answer.Reply,
		Responder: answer.Responder,
		Sources:   answer.Sources,
	}, nil
}

func (s *chatService) History(ctx context.Context, userId, notebookId uuid.UUID, limit, offset int) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: notebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, fmt.Errorf("notebook %s: %w", notebookId, rag.ErrNotFound)
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	total, err := uow.ChatMessageRepository().Count(ctx, specification.ByNotebookID{NotebookID: notebookId})
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ChatHistoryResponse{
		Messages: make([]dto.ChatMessageResponse, 0, len(messages)),
		Total:    total,
	}
	for _, msg := range messages {
		res.Messages = append(res.Messages, dto.ChatMessageResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			Responder: msg.Responder,
			Sources:   msg.Sources,
			CreatedAt: msg.CreatedAt,
		})
	}
	return res, nil
}

// loadHistory returns the most recent turns in chronological order, mapped to
// the provider-agnostic message format.
func (s *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, notebookId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: historyWindow, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		history = append(history, llm.Message{
			Role:    messages[i].Role,
			Content: messages[i].Chat,
		})
	}
	return history, nil
}

// ChunkIndex adapts the vector index repository to both pipelines: searches
// for the query side, upserts and deletes for the ingest side.
type ChunkIndex struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChunkIndex(uowFactory unitofwork.RepositoryFactory) *ChunkIndex {
	return &ChunkIndex{uowFactory: uowFactory}
}

func (c *ChunkIndex) Search(ctx context.Context, collection string, embedding []float32, limit int, excludedSources []string) ([]*entity.ScoredSourceChunk, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.SourceChunkRepository().Search(ctx, collection, embedding, limit, excludedSources)
}

func (c *ChunkIndex) UpsertBulk(ctx context.Context, chunks []*entity.SourceChunk) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.SourceChunkRepository().UpsertBulk(ctx, chunks)
}

func (c *ChunkIndex) DeleteBySource(ctx context.Context, collection string, source string) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.SourceChunkRepository().DeleteBySource(ctx, collection, source)
}

// ExchangeStore adapts the chat message repository to the query pipeline.
// Both rows commit together or not at all.
type ExchangeStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewExchangeStore(uowFactory unitofwork.RepositoryFactory) *ExchangeStore {
	return &ExchangeStore{uowFactory: uowFactory}
}

func (e *ExchangeStore) AppendExchange(ctx context.Context, question *entity.ChatMessage, reply *entity.ChatMessage) error {
	if question.Role == "" {
		question.Role = constant.ChatMessageRoleUser
	}
	if reply.Role == "" {
		reply.Role = constant.ChatMessageRoleModel
	}

	uow := e.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().Create(ctx, question); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.ChatMessageRepository().Create(ctx, reply); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}
