package contract

import (
	"context"

	"codelm-be/internal/entity"
	"codelm-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error
}
