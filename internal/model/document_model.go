package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId    *uuid.UUID `gorm:"type:uuid;index"`
	SessionId string     `gorm:"type:varchar(64);not null;index"`
	Filename  string     `gorm:"type:varchar(255);not null"`
	Mime      string     `gorm:"type:varchar(100)"`
	Size      int64
	Status    string    `gorm:"type:varchar(30);not null"`
	TextLen   int       `gorm:"column:text_len"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}
