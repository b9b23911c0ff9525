package model

import (
	"time"

	"github.com/google/uuid"
)

type OAuthAccount struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index"`
	Provider        string    `gorm:"type:varchar(20);not null;index:idx_provider_subject,unique"`
	ProviderSubject string    `gorm:"type:varchar(255);not null;index:idx_provider_subject,unique"`
	EmailAtAuth     *string   `gorm:"type:varchar(255)"`
	AvatarURL       string    `gorm:"type:varchar(512)"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (OAuthAccount) TableName() string {
	return "oauth_accounts"
}
