package contract

import (
	"context"

	"prepareup-be/internal/entity"
	"prepareup-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error
}
