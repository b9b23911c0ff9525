package dto

import (
	"github.com/google/uuid"
)

// PersistDocumentsMessage travels over the in-process bus from the upload
// flow to the consumer that writes document rows.
type PersistDocumentsMessage struct {
	SessionId string                `json:"session_id"`
	UserId    *uuid.UUID            `json:"user_id,omitempty"`
	Documents []PersistDocumentItem `json:"documents"`
}

type PersistDocumentItem struct {
	Id       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Mime     string    `json:"mime"`
	Size     int64     `json:"size"`
	Status   string    `json:"status"`
	TextLen  int       `json:"text_len"`
}
