package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"codelm-be/internal/dto"
	"codelm-be/internal/entity"
	"codelm-be/internal/pkg/logger"
	"codelm-be/internal/repository/specification"
	"codelm-be/internal/repository/unitofwork"
	"codelm-be/pkg/rag"
	"codelm-be/pkg/storage"
)

type INotebookService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ShowNotebookResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNotebookResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type notebookService struct {
	uowFactory unitofwork.RepositoryFactory
	blobStore  storage.BlobStore
	logger     logger.ILogger
}

func NewNotebookService(
	uowFactory unitofwork.RepositoryFactory,
	blobStore storage.BlobStore,
	logger logger.ILogger,
) INotebookService {
	return &notebookService{
		uowFactory: uowFactory,
		blobStore:  blobStore,
		logger:     logger,
	}
}

func (c *notebookService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ShowNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebooks, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ShowNotebookResponse, 0, len(notebooks))
	for _, notebook := range notebooks {
		result = append(result, mapNotebook(notebook))
	}
	return result, nil
}

func (c *notebookService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook := entity.Notebook{
		Id:        uuid.New(),
		Name:      req.Name,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.NotebookRepository().Create(ctx, &notebook); err != nil {
		return nil, err
	}

	return &dto.CreateNotebookResponse{Id: notebook.Id}, nil
}

func (c *notebookService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return mapNotebook(notebook), nil
}

func (c *notebookService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.UpdateNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := c.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	notebook.Name = req.Name
	notebook.UpdatedAt = &now

	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, err
	}

	return &dto.UpdateNotebookResponse{Id: notebook.Id}, nil
}

// Delete removes the notebook and everything hanging off it: chat history,
// file records, their blobs, and the vector collection. Blob and index
// cleanup is best effort; a stale blob is logged, never blocks the delete.
func (c *notebookService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := c.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	files, err := uow.SourceFileRepository().FindAll(ctx, specification.ByNotebookID{NotebookID: id})
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByNotebookId(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.SourceFileRepository().DeleteByNotebookId(ctx, id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.NotebookRepository().Delete(ctx, notebook.Id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	collection := rag.CollectionName(id.String())
	if err := uow.SourceChunkRepository().DeleteByCollection(ctx, collection); err != nil {
		c.logger.Warn("notebook.service", "failed to drop vector collection", map[string]interface{}{
			"notebook_id": id.String(),
			"error":       err.Error(),
		})
	}

	for _, file := range files {
		if err := c.blobStore.Delete(ctx, file.StorageKey); err != nil {
			c.logger.Warn("notebook.service", "failed to delete blob", map[string]interface{}{
				"notebook_id": id.String(),
				"storage_key": file.StorageKey,
				"error":       err.Error(),
			})
		}
	}

	return nil
}

func (c *notebookService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Notebook, error) {
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, fmt.Errorf("notebook %s: %w", id, rag.ErrNotFound)
	}
	return notebook, nil
}

func mapNotebook(notebook *entity.Notebook) *dto.ShowNotebookResponse {
	return &dto.ShowNotebookResponse{
		Id:          notebook.Id,
		Name:        notebook.Name,
		SourceCount: notebook.SourceCount,
		CreatedAt:   notebook.CreatedAt,
		UpdatedAt:   notebook.UpdatedAt,
	}
}
