package contract

import (
	"context"

	"codelm-be/internal/entity"
	"codelm-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotebookRepository interface {
	Create(ctx context.Context, notebook *entity.Notebook) error
	Update(ctx context.Context, notebook *entity.Notebook) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// AdjustSourceCount shifts the cached source count by delta (negative on
	// file deletion). The count is advisory display state, not a constraint.
	AdjustSourceCount(ctx context.Context, id uuid.UUID, delta int) error
}
