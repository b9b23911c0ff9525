package service

import (
	"encoding/json"
	"testing"

	"prepareup-be/internal/constant"
	"prepareup-be/internal/dto"
	"prepareup-be/internal/ledger"

	"github.com/stretchr/testify/assert"
)

func uploadResponse(sessionId string, names ...string) *dto.UploadResponse {
	files := make([]dto.UploadFileResult, 0, len(names))
	for _, n := range names {
		files = append(files, dto.UploadFileResult{
			Id: "id-" + n, Name: n, Status: "extracted", TextLen: 10,
		})
	}
	return &dto.UploadResponse{SessionId: sessionId, Files: files}
}

func TestRecordUploadCreatesThreadNamedAfterFirstFile(t *testing.T) {
	svc := NewSessionService(ledger.NewRegistry())

	svc.RecordUpload("u1", uploadResponse("s1", "lecture.pdf", "slides.pptx"))

	active := svc.Active("u1")
	assert.NotNil(t, active.Session)
	assert.Equal(t, "lecture.pdf", active.Session.Title)
	assert.Equal(t, "s1", active.Session.BackendSessionId)
	assert.Len(t, active.Session.UploadedFiles, 2)
	assert.Equal(t, 20, active.Session.CombinedTextLen)
}

func TestRecordChatAppendsBothTurns(t *testing.T) {
	svc := NewSessionService(ledger.NewRegistry())
	svc.RecordUpload("u1", uploadResponse("s1", "a.txt"))

	svc.RecordChat("u1", "s1", "what is this?", "It is a file.")
	svc.RecordChat("u1", "s1", "and this?", "Another.")

	active := svc.Active("u1")
	assert.Len(t, active.Session.Messages, 4)
	assert.Equal(t, ledger.RoleUser, active.Session.Messages[0].Role)
	assert.Equal(t, "what is this?", active.Session.Messages[0].Text)
	assert.Equal(t, ledger.RoleAssistant, active.Session.Messages[3].Role)
	assert.Equal(t, "Another.", active.Session.Messages[3].Text)
}

func TestRecordGenerationSetsSelectedOutput(t *testing.T) {
	svc := NewSessionService(ledger.NewRegistry())
	svc.RecordUpload("u1", uploadResponse("s1", "a.txt"))

	payload, _ := json.Marshal(dto.TextPayload{Type: constant.OutputStudyGuide, Text: "Guide text"})
	svc.RecordGeneration("u1", "s1", constant.OutputStudyGuide, payload)

	active := svc.Active("u1")
	assert.Equal(t, ledger.OutputStudyGuide, active.Session.SelectedOutput)
	assert.Len(t, active.Session.Messages, 1)
	assert.Equal(t, "Guide text", active.Session.Messages[0].Text)
	assert.Equal(t, constant.OutputStudyGuide, active.Session.Messages[0].Meta)
}

func TestOpenUnknownThreadLeavesActiveUntouched(t *testing.T) {
	svc := NewSessionService(ledger.NewRegistry())
	svc.RecordUpload("u1", uploadResponse("s1", "a.txt"))

	res := svc.OpenThread("u1", "no-such-id")
	assert.Nil(t, res.Session)

	active := svc.Active("u1")
	assert.NotNil(t, active.Session)
	assert.Equal(t, "a.txt", active.Session.Title)
}

func TestStartNewThenUploadMakesSecondThread(t *testing.T) {
	svc := NewSessionService(ledger.NewRegistry())
	svc.RecordUpload("u1", uploadResponse("s1", "first.txt"))
	svc.StartNew("u1")

	assert.Nil(t, svc.Active("u1").Session)

	svc.RecordUpload("u1", uploadResponse("s2", "second.txt"))

	list := svc.ListThreads("u1", "", 0)
	assert.Len(t, list.Threads, 2)
	assert.Equal(t, "second.txt", list.Threads[0].Title)
	assert.Equal(t, "first.txt", list.Threads[1].Title)
}

func TestListThreadsFilterAndIsolationBetweenUsers(t *testing.T) {
	svc := NewSessionService(ledger.NewRegistry())
	svc.RecordUpload("u1", uploadResponse("s1", "biology.pdf"))
	svc.RecordUpload("u2", uploadResponse("s2", "history.pdf"))

	assert.Len(t, svc.ListThreads("u1", "", 0).Threads, 1)
	assert.Len(t, svc.ListThreads("u2", "", 0).Threads, 1)

	assert.Len(t, svc.ListThreads("u1", "BIO", 0).Threads, 1)
	assert.Empty(t, svc.ListThreads("u1", "history", 0).Threads)
}
