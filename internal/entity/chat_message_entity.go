package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id         uuid.UUID
	NotebookId uuid.UUID
	// UserId is set for user turns, nil for model turns.
	UserId *uuid.UUID
	Role   string
	Chat   string
	// Responder labels which model produced a model turn.
	Responder string
	// Sources lists the display names of the files the reply was grounded in.
	Sources   []string
	CreatedAt time.Time
	DeletedAt *time.Time
}
