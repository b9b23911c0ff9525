package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document records one uploaded file: who sent it (nil for anonymous
// sessions), which upload session it belongs to and how extraction went.
type Document struct {
	Id        uuid.UUID
	UserId    *uuid.UUID
	SessionId string
	Filename  string
	Mime      string
	Size      int64
	Status    string
	TextLen   int
	CreatedAt time.Time
}
