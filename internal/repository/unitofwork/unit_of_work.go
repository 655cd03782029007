package unitofwork

import (
	"context"

	"codelm-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	NotebookRepository() contract.NotebookRepository
	SourceFileRepository() contract.SourceFileRepository
	SourceChunkRepository() contract.SourceChunkRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
