package mapper

import (
	"time"

	"codelm-be/internal/entity"
	"codelm-be/internal/model"

	"gorm.io/gorm"
)

type SourceFileMapper struct{}

func NewSourceFileMapper() *SourceFileMapper {
	return &SourceFileMapper{}
}

func (m *SourceFileMapper) ToEntity(e *model.SourceFile) *entity.SourceFile {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.SourceFile{
		Id:          e.Id,
		NotebookId:  e.NotebookId,
		StorageKey:  e.StorageKey,
		DisplayName: e.DisplayName,
		MimeType:    e.MimeType,
		SizeBytes:   e.SizeBytes,
		PublicURL:   e.PublicURL,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *SourceFileMapper) ToModel(e *entity.SourceFile) *model.SourceFile {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.SourceFile{
		Id:          e.Id,
		NotebookId:  e.NotebookId,
		StorageKey:  e.StorageKey,
		DisplayName: e.DisplayName,
		MimeType:    e.MimeType,
		SizeBytes:   e.SizeBytes,
		PublicURL:   e.PublicURL,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *SourceFileMapper) ToEntities(files []*model.SourceFile) []*entity.SourceFile {
	entities := make([]*entity.SourceFile, len(files))
	for i, f := range files {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
