package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Generation job lifecycle.
const (
	JobStatusQueued    = "queued"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// GenerationJob records one artifact generation: the requested output type,
// the outcome and the structured payload the model returned.
type GenerationJob struct {
	Id         uuid.UUID
	UserId     *uuid.UUID
	SessionId  string
	OutputType string
	Status     string
	Error      string
	Payload    json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
