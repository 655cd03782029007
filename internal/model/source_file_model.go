package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SourceFile struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NotebookId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	StorageKey  string         `gorm:"type:varchar(255);not null;index"`
	DisplayName string         `gorm:"type:varchar(255);not null"`
	MimeType    string         `gorm:"type:varchar(127)"`
	SizeBytes   int64          `gorm:"default:0"`
	PublicURL   string         `gorm:"type:text"`
	Status      string         `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (SourceFile) TableName() string {
	return "source_files"
}
