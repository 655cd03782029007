package mapper

import (
	"encoding/json"
	"time"

	"codelm-be/internal/entity"
	"codelm-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessageMapper struct{}

func NewChatMessageMapper() *ChatMessageMapper {
	return &ChatMessageMapper{}
}

func (m *ChatMessageMapper) ToEntity(e *model.ChatMessage) *entity.ChatMessage {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var sources []string
	if len(e.Sources) > 0 {
		// Malformed JSON leaves sources empty rather than failing the read
		_ = json.Unmarshal(e.Sources, &sources)
	}

	return &entity.ChatMessage{
		Id:         e.Id,
		NotebookId: e.NotebookId,
		UserId:     e.UserId,
		Role:       e.Role,
		Chat:       e.Chat,
		Responder:  e.Responder,
		Sources:    sources,
		CreatedAt:  e.CreatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *ChatMessageMapper) ToModel(e *entity.ChatMessage) *model.ChatMessage {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	var sources datatypes.JSON
	if len(e.Sources) > 0 {
		raw, err := json.Marshal(e.Sources)
		if err == nil {
			sources = datatypes.JSON(raw)
		}
	}

	return &model.ChatMessage{
		Id:         e.Id,
		NotebookId: e.NotebookId,
		UserId:     e.UserId,
		Role:       e.Role,
		Chat:       e.Chat,
		Responder:  e.Responder,
		Sources:    sources,
		CreatedAt:  e.CreatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *ChatMessageMapper) ToEntities(messages []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(messages))
	for i, msg := range messages {
		entities[i] = m.ToEntity(msg)
	}
	return entities
}
