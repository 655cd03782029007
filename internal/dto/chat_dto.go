package dto

import (
	"time"

	"github.com/google/uuid"
)

type AskRequest struct {
	NotebookId      uuid.UUID
	Question        string   `json:"question" validate:"required"`
	ExcludedSources []string `json:"excluded_sources"`
}

type AskResponse struct {
	Reply     string   `json:"reply"`
	Responder string   `json:"responder"`
	Sources   []string `json:"sources"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	Responder string    `json:"responder,omitempty"`
	Sources   []string  `json:"sources,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
	Total    int64                 `json:"total"`
}
