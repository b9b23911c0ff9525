package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GenerationJob struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId     *uuid.UUID `gorm:"type:uuid;index"`
	SessionId  string     `gorm:"type:varchar(64);not null;index"`
	OutputType string     `gorm:"type:varchar(30);not null"`
	Status     string     `gorm:"type:varchar(30);not null;default:queued"`
	Error      string     `gorm:"type:varchar(1000)"`
	Payload    datatypes.JSON
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (GenerationJob) TableName() string {
	return "generation_jobs"
}
