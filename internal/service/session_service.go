package service

import (
	"encoding/json"
	"time"

	"prepareup-be/internal/constant"
	"prepareup-be/internal/dto"
	"prepareup-be/internal/ledger"

	"github.com/google/uuid"
)

// ISessionService fronts the per-user chat-thread registry. Upload, generate
// and chat report into it; the sessions endpoints read from it.
type ISessionService interface {
	ListThreads(userId, query string, reveals int) *dto.ThreadListResponse
	OpenThread(userId, threadId string) *dto.OpenThreadResponse
	StartNew(userId string)
	Active(userId string) *dto.OpenThreadResponse

	RecordUpload(userId string, res *dto.UploadResponse)
	RecordGeneration(userId, sessionId, outputType string, payload json.RawMessage)
	RecordChat(userId, sessionId, question, answer string)
}

type sessionService struct {
	registry *ledger.Registry
}

func NewSessionService(registry *ledger.Registry) ISessionService {
	return &sessionService{registry: registry}
}

func (s *sessionService) ListThreads(userId, query string, reveals int) *dto.ThreadListResponse {
	l := s.registry.ForUser(userId)
	threads := l.Threads(time.Now(), query, ledger.RevealLimit(reveals))
	return &dto.ThreadListResponse{
		Threads: threads,
		Query:   query,
		Reveals: reveals,
	}
}

func (s *sessionService) OpenThread(userId, threadId string) *dto.OpenThreadResponse {
	l := s.registry.ForUser(userId)
	// An unknown id leaves the active thread untouched; the caller gets a
	// nil session and keeps whatever it was showing.
	session, ok := l.OpenThread(threadId)
	if !ok {
		return &dto.OpenThreadResponse{}
	}
	return &dto.OpenThreadResponse{Session: session}
}

func (s *sessionService) StartNew(userId string) {
	s.registry.ForUser(userId).StartNew()
}

func (s *sessionService) Active(userId string) *dto.OpenThreadResponse {
	session, ok := s.registry.ForUser(userId).Active()
	if !ok {
		return &dto.OpenThreadResponse{}
	}
	return &dto.OpenThreadResponse{Session: session}
}

// RecordUpload folds an upload result into the user's active thread, or
// creates one named after the first file.
func (s *sessionService) RecordUpload(userId string, res *dto.UploadResponse) {
	files := make([]ledger.UploadedFile, 0, len(res.Files))
	textLen := 0
	for _, f := range res.Files {
		files = append(files, ledger.UploadedFile{
			Id:                  f.Id,
			Name:                f.Name,
			Status:              f.Status,
			ExtractedTextLength: f.TextLen,
		})
		textLen += f.TextLen
	}

	backendId := res.SessionId
	s.registry.ForUser(userId).Upsert(ledger.Patch{
		BackendSessionId: &backendId,
		UploadedFiles:    files,
		CombinedTextLen:  &textLen,
	})
}

func (s *sessionService) RecordGeneration(userId, sessionId, outputType string, payload json.RawMessage) {
	selected := ledger.OutputType(outputType)
	msg := ledger.Message{
		Id:   uuid.NewString(),
		Role: ledger.RoleAssistant,
		Meta: outputType,
		Text: renderArtifactText(outputType, payload),
	}

	l := s.registry.ForUser(userId)
	active, ok := l.Active()
	messages := []ledger.Message{msg}
	if ok {
		messages = append(append([]ledger.Message{}, active.Messages...), msg)
	}

	l.Upsert(ledger.Patch{
		BackendSessionId: &sessionId,
		SelectedOutput:   &selected,
		Messages:         messages,
	})
}

func (s *sessionService) RecordChat(userId, sessionId, question, answer string) {
	l := s.registry.ForUser(userId)

	turns := []ledger.Message{
		{Id: uuid.NewString(), Role: ledger.RoleUser, Text: question},
		{Id: uuid.NewString(), Role: ledger.RoleAssistant, Text: answer},
	}
	if active, ok := l.Active(); ok {
		turns = append(append([]ledger.Message{}, active.Messages...), turns...)
	}

	l.Upsert(ledger.Patch{
		BackendSessionId: &sessionId,
		Messages:         turns,
	})
}

// renderArtifactText flattens a structured artifact into transcript text so
// the thread view has something readable without re-fetching the payload.
func renderArtifactText(outputType string, payload json.RawMessage) string {
	switch outputType {
	case constant.OutputStudyGuide, constant.OutputNarrative:
		var text dto.TextPayload
		if err := json.Unmarshal(payload, &text); err == nil && text.Text != "" {
			return text.Text
		}
	}
	return string(payload)
}
