package unitofwork

import (
	"context"

	"prepareup-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	OAuthAccountRepository() contract.OAuthAccountRepository
	DocumentRepository() contract.DocumentRepository
	GenerationJobRepository() contract.GenerationJobRepository
}
