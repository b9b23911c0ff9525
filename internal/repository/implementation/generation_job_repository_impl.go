package implementation

import (
	"context"
	"errors"

	"prepareup-be/internal/entity"
	"prepareup-be/internal/mapper"
	"prepareup-be/internal/model"
	"prepareup-be/internal/repository/contract"
	"prepareup-be/internal/repository/specification"

	"gorm.io/gorm"
)

type GenerationJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StudyMapper
}

func NewGenerationJobRepository(db *gorm.DB) contract.GenerationJobRepository {
	return &GenerationJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewStudyMapper(),
	}
}

func (r *GenerationJobRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GenerationJobRepositoryImpl) Create(ctx context.Context, job *entity.GenerationJob) error {
	m := r.mapper.JobToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.JobToEntity(m)
	return nil
}

func (r *GenerationJobRepositoryImpl) Update(ctx context.Context, job *entity.GenerationJob) error {
	m := r.mapper.JobToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.JobToEntity(m)
	return nil
}

func (r *GenerationJobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationJob, error) {
	var m model.GenerationJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.JobToEntity(&m), nil
}

func (r *GenerationJobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationJob, error) {
	var models []*model.GenerationJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.GenerationJob, len(models))
	for i, m := range models {
		entities[i] = r.mapper.JobToEntity(m)
	}
	return entities, nil
}
