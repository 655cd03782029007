package service

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"codelm-be/internal/dto"
	"codelm-be/internal/entity"
	"codelm-be/internal/pkg/logger"
	"codelm-be/internal/repository/specification"
	"codelm-be/internal/repository/unitofwork"
	"codelm-be/internal/websocket"
	"codelm-be/pkg/events"
	"codelm-be/pkg/nats"
	"codelm-be/pkg/rag/ingest"
	"codelm-be/pkg/storage"
)

type IIngestConsumerService interface {
	Consume(ctx context.Context) error
}

// ingestConsumerService drains the upload queue and runs the ingestion
// pipeline for each file. Failures are isolated per message: one bad file
// marks itself failed and the rest of the batch proceeds.
type ingestConsumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	blobStore      storage.BlobStore
	pipeline       *ingest.Pipeline
	eventPublisher *nats.Publisher
	hub            *websocket.Hub
	logger         logger.ILogger
}

func NewIngestConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	blobStore storage.BlobStore,
	pipeline *ingest.Pipeline,
	eventPublisher *nats.Publisher,
	hub *websocket.Hub,
	logger logger.ILogger,
) IIngestConsumerService {
	return &ingestConsumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		blobStore:      blobStore,
		pipeline:       pipeline,
		eventPublisher: eventPublisher,
		hub:            hub,
		logger:         logger,
	}
}

func (cs *ingestConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *ingestConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestSourceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ingest.consumer", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	file, err := uow.SourceFileRepository().FindOne(ctx, specification.ByID{ID: payload.FileId})
	if err != nil {
		cs.logger.Error("ingest.consumer", "failed to load file record", map[string]interface{}{
			"file_id": payload.FileId.String(),
			"error":   err.Error(),
		})
		msg.Nack() // Retriable
		return
	}
	if file == nil {
		// File deleted between upload and ingestion. Nothing to do.
		msg.Ack()
		return
	}

	chunkCount, err := cs.ingest(ctx, payload.NotebookId, file)
	if err != nil {
		cs.logger.Error("ingest.consumer", "ingestion failed", map[string]interface{}{
			"file_id": file.Id.String(),
			"source":  file.DisplayName,
			"error":   err.Error(),
		})
		cs.finish(ctx, uow, payload, file, entity.SourceStatusFailed, err.Error(), 0)
		msg.Ack() // Terminal: the status row carries the failure
		return
	}

	cs.logger.Info("ingest.consumer", "source indexed", map[string]interface{}{
		"file_id":     file.Id.String(),
		"source":      file.DisplayName,
		"chunk_count": chunkCount,
	})
	cs.finish(ctx, uow, payload, file, entity.SourceStatusReady, "", chunkCount)
	msg.Ack()
}

func (cs *ingestConsumerService) ingest(ctx context.Context, notebookId uuid.UUID, file *entity.SourceFile) (int, error) {
	blob, err := cs.blobStore.Read(ctx, file.StorageKey)
	if err != nil {
		return 0, err
	}
	defer blob.Close()

	data, err := io.ReadAll(blob)
	if err != nil {
		return 0, err
	}

	return cs.pipeline.IngestFile(ctx, notebookId, file, data)
}

// finish records the terminal status and tells the owner's open sessions,
// both directly and through the event bus for anything else listening.
func (cs *ingestConsumerService) finish(ctx context.Context, uow unitofwork.UnitOfWork, payload dto.PublishIngestSourceMessage, file *entity.SourceFile, status, detail string, chunkCount int) {
	if err := uow.SourceFileRepository().UpdateStatus(ctx, file.Id, status); err != nil {
		cs.logger.Error("ingest.consumer", "failed to update file status", map[string]interface{}{
			"file_id": file.Id.String(),
			"status":  status,
			"error":   err.Error(),
		})
	}

	if cs.hub != nil {
		cs.hub.Send(payload.UserId, websocket.StatusUpdate{
			NotebookId:  payload.NotebookId.String(),
			FileId:      file.Id.String(),
			DisplayName: file.DisplayName,
			Status:      status,
			Detail:      detail,
			ChunkCount:  chunkCount,
		})
	}

	if cs.eventPublisher != nil {
		var evt events.Event
		if status == entity.SourceStatusReady {
			evt = events.NewSourceIngested(payload.NotebookId.String(), payload.UserId.String(), file.Id.String(), file.DisplayName, chunkCount)
		} else {
			evt = events.NewSourceIngestFailed(payload.NotebookId.String(), payload.UserId.String(), file.Id.String(), file.DisplayName, detail)
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("ingest.consumer", "failed to publish lifecycle event", map[string]interface{}{
				"file_id": file.Id.String(),
				"error":   err.Error(),
			})
		}
	}
}
