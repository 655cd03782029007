package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"codelm-be/internal/dto"
	"codelm-be/internal/entity"
	"codelm-be/internal/pkg/logger"
	"codelm-be/internal/repository/specification"
	"codelm-be/internal/repository/unitofwork"
	"codelm-be/pkg/rag"
	"codelm-be/pkg/reader"
	"codelm-be/pkg/storage"
)

type ISourceService interface {
	Upload(ctx context.Context, userId, notebookId uuid.UUID, files []*multipart.FileHeader) (*dto.UploadSourcesResponse, error)
	GetAll(ctx context.Context, userId, notebookId uuid.UUID) ([]*dto.ShowSourceResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, req *dto.DeleteSourceRequest) error
}

type sourceService struct {
	uowFactory       unitofwork.RepositoryFactory
	blobStore        storage.BlobStore
	readerRegistry   *reader.Registry
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSourceService(
	uowFactory unitofwork.RepositoryFactory,
	blobStore storage.BlobStore,
	readerRegistry *reader.Registry,
	publisherService IPublisherService,
	logger logger.ILogger,
) ISourceService {
	return &sourceService{
		uowFactory:       uowFactory,
		blobStore:        blobStore,
		readerRegistry:   readerRegistry,
		publisherService: publisherService,
		logger:           logger,
	}
}

// Upload accepts a batch of files for one notebook. Each file is stored,
// recorded as pending and queued for background indexing; the response
// returns before any embedding happens. A file that can't be accepted is
// reported in Rejected without failing its siblings.
func (s *sourceService) Upload(ctx context.Context, userId, notebookId uuid.UUID, files []*multipart.FileHeader) (*dto.UploadSourcesResponse, error) {
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

	res := &dto.UploadSourcesResponse{
		Accepted: make([]dto.UploadSourceResponse, 0, len(files)),
		Rejected: make([]dto.RejectedSource, 0),
	}

	for _, fileHeader := range files {
		accepted, reason := s.uploadOne(ctx, uow, userId, notebookId, fileHeader)
		if accepted == nil {
			res.Rejected = append(res.Rejected, dto.RejectedSource{
				DisplayName: fileHeader.Filename,
				Reason:      reason,
			})
			continue
		}
		res.Accepted = append(res.Accepted, *accepted)
	}

	return res, nil
}

func (s *sourceService) uploadOne(ctx context.Context, uow unitofwork.UnitOfWork, userId, notebookId uuid.UUID, fileHeader *multipart.FileHeader) (*dto.UploadSourceResponse, string) {
	displayName := fileHeader.Filename
	mimeType := fileHeader.Header.Get("Content-Type")

	if _, supported := s.readerRegistry.Lookup(mimeType); !supported {
		return nil, fmt.Sprintf("unsupported file type %s", mimeType)
	}

	// Chunk deletion matches on display name, so duplicates inside one
	// notebook would make per-file deletion ambiguous.
	existing, err := uow.SourceFileRepository().FindOne(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.ByDisplayName{DisplayName: displayName},
	)
	if err != nil {
		return nil, err.Error()
	}
	if existing != nil {
		return nil, "a file with this name already exists in the notebook"
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Sprintf("unreadable upload: %v", err)
	}
	defer src.Close()

	storageKey := fmt.Sprintf("%s/%s%s", notebookId, uuid.New(), filepath.Ext(displayName))
	if err := s.blobStore.Upload(ctx, storageKey, src); err != nil {
		return nil, fmt.Sprintf("blob store rejected upload: %v", err)
	}

	file := entity.SourceFile{
		Id:          uuid.New(),
		NotebookId:  notebookId,
		StorageKey:  storageKey,
		DisplayName: displayName,
		MimeType:    mimeType,
		SizeBytes:   fileHeader.Size,
		PublicURL:   s.blobStore.PublicURL(storageKey),
		Status:      entity.SourceStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := uow.SourceFileRepository().Create(ctx, &file); err != nil {
		s.blobStore.Delete(ctx, storageKey)
		return nil, err.Error()
	}
	if err := uow.NotebookRepository().AdjustSourceCount(ctx, notebookId, 1); err != nil {
		s.logger.Warn("source.service", "failed to bump source count", map[string]interface{}{
			"notebook_id": notebookId.String(),
			"error":       err.Error(),
		})
	}

	payload, _ := json.Marshal(dto.PublishIngestSourceMessage{
		FileId:     file.Id,
		NotebookId: notebookId,
		UserId:     userId,
	})
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		// The record stays pending; a failed enqueue is retryable by
		// re-uploading or a future sweep, not a reason to drop the file.
		s.logger.Error("source.service", "failed to queue ingestion", map[string]interface{}{
			"file_id": file.Id.String(),
			"error":   err.Error(),
		})
	}

	return &dto.UploadSourceResponse{
		Id:          file.Id,
		DisplayName: file.DisplayName,
		Status:      file.Status,
		PublicURL:   file.PublicURL,
	}, ""
}

func (s *sourceService) GetAll(ctx context.Context, userId, notebookId uuid.UUID) ([]*dto.ShowSourceResponse, error) {
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

	files, err := uow.SourceFileRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ShowSourceResponse, 0, len(files))
	for _, file := range files {
		result = append(result, &dto.ShowSourceResponse{
			Id:          file.Id,
			DisplayName: file.DisplayName,
			MimeType:    file.MimeType,
			SizeBytes:   file.SizeBytes,
			Status:      file.Status,
			PublicURL:   file.PublicURL,
			CreatedAt:   file.CreatedAt,
			UpdatedAt:   file.UpdatedAt,
		})
	}
	return result, nil
}

// Delete removes a source by display name: its vectors first (best effort),
// then the record and blob. A failed vector delete is logged and the file
// still goes away; the orphaned vectors never match a live source again.
func (s *sourceService) Delete(ctx context.Context, userId uuid.UUID, req *dto.DeleteSourceRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if notebook == nil {
		return fmt.Errorf("notebook %s: %w", req.NotebookId, rag.ErrNotFound)
	}

	file, err := uow.SourceFileRepository().FindOne(ctx,
		specification.ByNotebookID{NotebookID: req.NotebookId},
		specification.ByDisplayName{DisplayName: req.DisplayName},
	)
	if err != nil {
		return err
	}
	if file == nil {
		return fmt.Errorf("source %q: %w", req.DisplayName, rag.ErrNotFound)
	}

	collection := rag.CollectionName(req.NotebookId.String())
	if err := uow.SourceChunkRepository().DeleteBySource(ctx, collection, file.DisplayName); err != nil {
		s.logger.Warn("source.service", "failed to delete vectors, leaking chunks", map[string]interface{}{
			"notebook_id": req.NotebookId.String(),
			"source":      file.DisplayName,
			"error":       err.Error(),
		})
	}

	if err := uow.SourceFileRepository().Delete(ctx, file.Id); err != nil {
		return err
	}
	if err := uow.NotebookRepository().AdjustSourceCount(ctx, req.NotebookId, -1); err != nil {
		s.logger.Warn("source.service", "failed to drop source count", map[string]interface{}{
			"notebook_id": req.NotebookId.String(),
			"error":       err.Error(),
		})
	}

	if err := s.blobStore.Delete(ctx, file.StorageKey); err != nil {
		s.logger.Warn("source.service", "failed to delete blob", map[string]interface{}{
			"storage_key": file.StorageKey,
			"error":       err.Error(),
		})
	}

	return nil
}
