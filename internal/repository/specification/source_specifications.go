package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByNotebookID filters source files and chat messages by notebook
type ByNotebookID struct {
	NotebookID uuid.UUID
}

func (s ByNotebookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id = ?", s.NotebookID)
}

// ByStorageKey filters source files by their blob key
type ByStorageKey struct {
	StorageKey string
}

func (s ByStorageKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("storage_key = ?", s.StorageKey)
}

// ByDisplayName filters source files by the user-visible file name
type ByDisplayName struct {
	DisplayName string
}

func (s ByDisplayName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("display_name = ?", s.DisplayName)
}

// ByStatus filters source files by ingestion status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
