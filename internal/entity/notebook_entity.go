package entity

import (
	"time"

	"github.com/google/uuid"
)

type Notebook struct {
	Id          uuid.UUID
	Name        string
	UserId      uuid.UUID
	SourceCount int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
}
