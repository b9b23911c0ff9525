package mapper

import (
	"time"

	"prepareup-be/internal/entity"
	"prepareup-be/internal/model"

	"gorm.io/gorm"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var deletedAt *time.Time
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	return &entity.User{
		Id:               u.Id,
		DisplayName:      u.DisplayName,
		AvatarURL:        u.AvatarURL,
		RefreshTokenHash: u.RefreshTokenHash,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        u.DeletedAt.Valid,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if u.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *u.DeletedAt, Valid: true}
	} else if u.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if u.UpdatedAt != nil {
		updatedAt = *u.UpdatedAt
	}

	return &model.User{
		Id:               u.Id,
		DisplayName:      u.DisplayName,
		AvatarURL:        u.AvatarURL,
		RefreshTokenHash: u.RefreshTokenHash,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *UserMapper) AccountToEntity(a *model.OAuthAccount) *entity.OAuthAccount {
	if a == nil {
		return nil
	}

	return &entity.OAuthAccount{
		Id:              a.Id,
		UserId:          a.UserId,
		Provider:        a.Provider,
		ProviderSubject: a.ProviderSubject,
		EmailAtAuth:     a.EmailAtAuth,
		AvatarURL:       a.AvatarURL,
		CreatedAt:       a.CreatedAt,
	}
}

func (m *UserMapper) AccountToModel(a *entity.OAuthAccount) *model.OAuthAccount {
	if a == nil {
		return nil
	}

	return &model.OAuthAccount{
		Id:              a.Id,
		UserId:          a.UserId,
		Provider:        a.Provider,
		ProviderSubject: a.ProviderSubject,
		EmailAtAuth:     a.EmailAtAuth,
		AvatarURL:       a.AvatarURL,
		CreatedAt:       a.CreatedAt,
	}
}
