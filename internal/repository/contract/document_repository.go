package contract

import (
	"context"

	"prepareup-be/internal/entity"
	"prepareup-be/internal/repository/specification"
)

type DocumentRepository interface {
	CreateBulk(ctx context.Context, documents []*entity.Document) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
