package contract

import (
	"context"

	"prepareup-be/internal/entity"
	"prepareup-be/internal/repository/specification"
)

type OAuthAccountRepository interface {
	Create(ctx context.Context, account *entity.OAuthAccount) error
	Update(ctx context.Context, account *entity.OAuthAccount) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.OAuthAccount, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.OAuthAccount, error)
}
