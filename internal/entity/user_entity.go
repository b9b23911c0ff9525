package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id               uuid.UUID
	DisplayName      string
	AvatarURL        string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
