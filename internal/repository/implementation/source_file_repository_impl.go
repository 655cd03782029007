package implementation

import (
	"context"
	"errors"

	"codelm-be/internal/entity"
	"codelm-be/internal/mapper"
	"codelm-be/internal/model"
	"codelm-be/internal/repository/contract"
	"codelm-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SourceFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SourceFileMapper
}

func NewSourceFileRepository(db *gorm.DB) contract.SourceFileRepository {
	return &SourceFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewSourceFileMapper(),
	}
}

func (r *SourceFileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SourceFileRepositoryImpl) Create(ctx context.Context, file *entity.SourceFile) error {
	m := r.mapper.ToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.ToEntity(m)
	return nil
}

func (r *SourceFileRepositoryImpl) Update(ctx context.Context, file *entity.SourceFile) error {
	m := r.mapper.ToModel(file)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.ToEntity(m)
	return nil
}

func (r *SourceFileRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SourceFile{}, id).Error
}

func (r *SourceFileRepositoryImpl) DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("notebook_id = ?", notebookId).
		Delete(&model.SourceFile{}).Error
}

func (r *SourceFileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SourceFile, error) {
	var m model.SourceFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SourceFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SourceFile, error) {
	var models []*model.SourceFile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SourceFileRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.SourceFile{}).Count(&count).Error
	return count, err
}

func (r *SourceFileRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.SourceFile{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
