package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NotebookId uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId     *uuid.UUID     `gorm:"type:uuid;index"`
	Role       string         `gorm:"type:varchar(50);not null"`
	Chat       string         `gorm:"type:text;not null"`
	Responder  string         `gorm:"type:varchar(100)"`
	Sources    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
