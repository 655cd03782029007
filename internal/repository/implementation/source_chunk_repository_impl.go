package implementation

import (
	"context"

	"codelm-be/internal/entity"
	"codelm-be/internal/mapper"
	"codelm-be/internal/model"
	"codelm-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SourceChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SourceChunkMapper
}

func NewSourceChunkRepository(db *gorm.DB) contract.SourceChunkRepository {
	return &SourceChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewSourceChunkMapper(),
	}
}

func (r *SourceChunkRepositoryImpl) UpsertBulk(ctx context.Context, chunks []*entity.SourceChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := r.mapper.ToModels(chunks)

	// ON CONFLICT on (collection, source, chunk_offset): re-ingesting the
	// same file replaces its chunks in place, which keeps ingestion
	// idempotent under retry.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "collection"},
			{Name: "source"},
			{Name: "chunk_offset"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"document", "embedding_value", "created_at"}),
	}).Create(models).Error
	if err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *SourceChunkRepositoryImpl) Search(ctx context.Context, collection string, embedding []float32, limit int, excludedSources []string) ([]*entity.ScoredSourceChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.SourceChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	// Cosine distance in pgvector is 1 - cosine_similarity.
	// Secondary order on id keeps equal-distance results stable.
	query := r.db.WithContext(ctx).
		Table("source_chunks").
		Select("source_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("collection = ?", collection)

	if len(excludedSources) > 0 {
		query = query.Where("source NOT IN ?", excludedSources)
	}

	err := query.
		Order("similarity DESC").
		Order("id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredSourceChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredSourceChunk{
			Chunk:      r.mapper.ToEntity(&res.SourceChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *SourceChunkRepositoryImpl) DeleteBySource(ctx context.Context, collection string, source string) error {
	return r.db.WithContext(ctx).
		Where("collection = ? AND source = ?", collection, source).
		Delete(&model.SourceChunk{}).Error
}

func (r *SourceChunkRepositoryImpl) DeleteByCollection(ctx context.Context, collection string) error {
	return r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Delete(&model.SourceChunk{}).Error
}

func (r *SourceChunkRepositoryImpl) CountBySource(ctx context.Context, collection string, source string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SourceChunk{}).
		Where("collection = ? AND source = ?", collection, source).
		Count(&count).Error
	return count, err
}

func (r *SourceChunkRepositoryImpl) CountByCollection(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SourceChunk{}).
		Where("collection = ?", collection).
		Count(&count).Error
	return count, err
}
