package mapper

import (
	"codelm-be/internal/entity"
	"codelm-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type SourceChunkMapper struct{}

func NewSourceChunkMapper() *SourceChunkMapper {
	return &SourceChunkMapper{}
}

func (m *SourceChunkMapper) ToEntity(e *model.SourceChunk) *entity.SourceChunk {
	if e == nil {
		return nil
	}

	return &entity.SourceChunk{
		Id:             e.Id,
		Collection:     e.Collection,
		Source:         e.Source,
		ChunkOffset:    e.ChunkOffset,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SourceChunkMapper) ToModel(e *entity.SourceChunk) *model.SourceChunk {
	if e == nil {
		return nil
	}

	return &model.SourceChunk{
		Id:             e.Id,
		Collection:     e.Collection,
		Source:         e.Source,
		ChunkOffset:    e.ChunkOffset,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SourceChunkMapper) ToEntities(chunks []*model.SourceChunk) []*entity.SourceChunk {
	entities := make([]*entity.SourceChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *SourceChunkMapper) ToModels(chunks []*entity.SourceChunk) []*model.SourceChunk {
	models := make([]*model.SourceChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
