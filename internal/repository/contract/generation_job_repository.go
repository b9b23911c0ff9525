package contract

import (
	"context"

	"prepareup-be/internal/entity"
	"prepareup-be/internal/repository/specification"
)

type GenerationJobRepository interface {
	Create(ctx context.Context, job *entity.GenerationJob) error
	Update(ctx context.Context, job *entity.GenerationJob) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationJob, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationJob, error)
}
