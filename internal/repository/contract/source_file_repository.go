package contract

import (
	"context"

	"codelm-be/internal/entity"
	"codelm-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SourceFileRepository interface {
	Create(ctx context.Context, file *entity.SourceFile) error
	Update(ctx context.Context, file *entity.SourceFile) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SourceFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SourceFile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
