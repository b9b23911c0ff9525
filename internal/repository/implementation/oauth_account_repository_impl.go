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

type OAuthAccountRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewOAuthAccountRepository(db *gorm.DB) contract.OAuthAccountRepository {
	return &OAuthAccountRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *OAuthAccountRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *OAuthAccountRepositoryImpl) Create(ctx context.Context, account *entity.OAuthAccount) error {
	m := r.mapper.AccountToModel(account)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*account = *r.mapper.AccountToEntity(m)
	return nil
}

func (r *OAuthAccountRepositoryImpl) Update(ctx context.Context, account *entity.OAuthAccount) error {
	m := r.mapper.AccountToModel(account)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*account = *r.mapper.AccountToEntity(m)
	return nil
}

func (r *OAuthAccountRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.OAuthAccount, error) {
	var m model.OAuthAccount
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AccountToEntity(&m), nil
}

func (r *OAuthAccountRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.OAuthAccount, error) {
	var models []*model.OAuthAccount
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.OAuthAccount, len(models))
	for i, m := range models {
		entities[i] = r.mapper.AccountToEntity(m)
	}
	return entities, nil
}
