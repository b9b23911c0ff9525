package mapper

import (
	"encoding/json"
	"time"

	"prepareup-be/internal/entity"
	"prepareup-be/internal/model"

	"gorm.io/datatypes"
)

// StudyMapper converts the upload/generation records between entity and
// GORM model shapes.
type StudyMapper struct{}

func NewStudyMapper() *StudyMapper {
	return &StudyMapper{}
}

func (m *StudyMapper) DocumentToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:        d.Id,
		UserId:    d.UserId,
		SessionId: d.SessionId,
		Filename:  d.Filename,
		Mime:      d.Mime,
		Size:      d.Size,
		Status:    d.Status,
		TextLen:   d.TextLen,
		CreatedAt: d.CreatedAt,
	}
}

func (m *StudyMapper) DocumentToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:        d.Id,
		UserId:    d.UserId,
		SessionId: d.SessionId,
		Filename:  d.Filename,
		Mime:      d.Mime,
		Size:      d.Size,
		Status:    d.Status,
		TextLen:   d.TextLen,
		CreatedAt: d.CreatedAt,
	}
}

func (m *StudyMapper) JobToEntity(j *model.GenerationJob) *entity.GenerationJob {
	if j == nil {
		return nil
	}

	var updatedAt *time.Time
	if !j.UpdatedAt.IsZero() {
		t := j.UpdatedAt
		updatedAt = &t
	}

	return &entity.GenerationJob{
		Id:         j.Id,
		UserId:     j.UserId,
		SessionId:  j.SessionId,
		OutputType: j.OutputType,
		Status:     j.Status,
		Error:      j.Error,
		Payload:    json.RawMessage(j.Payload),
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *StudyMapper) JobToModel(j *entity.GenerationJob) *model.GenerationJob {
	if j == nil {
		return nil
	}

	var updatedAt time.Time
	if j.UpdatedAt != nil {
		updatedAt = *j.UpdatedAt
	}

	return &model.GenerationJob{
		Id:         j.Id,
		UserId:     j.UserId,
		SessionId:  j.SessionId,
		OutputType: j.OutputType,
		Status:     j.Status,
		Error:      j.Error,
		Payload:    datatypes.JSON(j.Payload),
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}
