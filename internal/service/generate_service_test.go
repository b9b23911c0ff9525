package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"prepareup-be/internal/constant"
	"prepareup-be/internal/dto"
	"prepareup-be/internal/entity"
	"prepareup-be/internal/repository/memory"
	"prepareup-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func seedCorpus(repo *memory.CorpusRepository, id, text string) {
	repo.Save(&store.Corpus{ID: id, Text: text, CreatedAt: time.Now()})
}

func newGenerateService(llmStub *scriptedLLM, factory *fakeUowFactory) (IGenerateService, *memory.CorpusRepository) {
	repo := memory.NewCorpusRepository()
	svc := NewGenerateService(repo, llmStub, factory, allowAllLimiter{}, nil, nopLogger{})
	return svc, repo
}

func TestGenerateUnknownSessionIs404(t *testing.T) {
	svc, _ := newGenerateService(&scriptedLLM{}, newFakeUowFactory())

	_, err := svc.Generate(context.Background(), nil, &dto.GenerateRequest{
		SessionId:  "missing",
		OutputType: constant.OutputStudyGuide,
	})
	fe, ok := err.(*fiber.Error)
	assert.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestGenerateEmptyCorpusIs400(t *testing.T) {
	svc, repo := newGenerateService(&scriptedLLM{}, newFakeUowFactory())
	seedCorpus(repo, "s1", "   ")

	_, err := svc.Generate(context.Background(), nil, &dto.GenerateRequest{
		SessionId:  "s1",
		OutputType: constant.OutputNarrative,
	})
	fe, ok := err.(*fiber.Error)
	assert.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestGenerateForcesTypeOnTextOutputs(t *testing.T) {
	llmStub := &scriptedLLM{replies: []string{`{"type": "narrative", "text": "Guide content"}`}}
	svc, repo := newGenerateService(llmStub, newFakeUowFactory())
	seedCorpus(repo, "s1", "course notes")

	payload, err := svc.Generate(context.Background(), nil, &dto.GenerateRequest{
		SessionId:  "s1",
		OutputType: constant.OutputStudyGuide,
	})
	assert.NoError(t, err)

	var out dto.TextPayload
	assert.NoError(t, json.Unmarshal(payload, &out))
	// The model mislabeled itself; the response is corrected.
	assert.Equal(t, constant.OutputStudyGuide, out.Type)
	assert.Equal(t, "Guide content", out.Text)
}

func TestGenerateInvalidModelJSONIs502(t *testing.T) {
	llmStub := &scriptedLLM{replies: []string{"definitely not json"}}
	factory := newFakeUowFactory()
	svc, repo := newGenerateService(llmStub, factory)
	seedCorpus(repo, "s1", "course notes")

	_, err := svc.Generate(context.Background(), nil, &dto.GenerateRequest{
		SessionId:  "s1",
		OutputType: constant.OutputFlashCard,
	})
	fe, ok := err.(*fiber.Error)
	assert.True(t, ok)
	assert.Equal(t, fiber.StatusBadGateway, fe.Code)

	// The job row records the failure.
	assert.Len(t, factory.uow.jobs.updated, 1)
	assert.Equal(t, entity.JobStatusFailed, factory.uow.jobs.updated[0].Status)
}

func TestGenerateFlashcardsRecordsCompletedJob(t *testing.T) {
	llmStub := &scriptedLLM{replies: []string{`{"type": "flash_card", "cards": [{"front": "F", "back": "B"}]}`}}
	factory := newFakeUowFactory()
	svc, repo := newGenerateService(llmStub, factory)
	seedCorpus(repo, "s1", "course notes")

	payload, err := svc.Generate(context.Background(), nil, &dto.GenerateRequest{
		SessionId:  "s1",
		OutputType: constant.OutputFlashCard,
	})
	assert.NoError(t, err)

	var out dto.FlashcardsPayload
	assert.NoError(t, json.Unmarshal(payload, &out))
	assert.Len(t, out.Cards, 1)

	assert.Len(t, factory.uow.jobs.created, 1)
	assert.Equal(t, entity.JobStatusQueued, factory.uow.jobs.created[0].Status)
	assert.Len(t, factory.uow.jobs.updated, 1)
	assert.Equal(t, entity.JobStatusCompleted, factory.uow.jobs.updated[0].Status)
}

func TestGenerateCapsCorpus(t *testing.T) {
	llmStub := &scriptedLLM{replies: []string{`{"type": "narrative", "text": "ok"}`}}
	svc, repo := newGenerateService(llmStub, newFakeUowFactory())

	huge := make([]byte, constant.CorpusCap+500)
	for i := range huge {
		huge[i] = 'a'
	}
	seedCorpus(repo, "s1", string(huge))

	_, err := svc.Generate(context.Background(), nil, &dto.GenerateRequest{
		SessionId:  "s1",
		OutputType: constant.OutputNarrative,
	})
	assert.NoError(t, err)

	// The user message carries "CONTENT:\n" plus the capped corpus plus
	// the instruction; the raw corpus must have been truncated.
	sent := llmStub.calls[0][1].Content
	assert.Less(t, len(sent), constant.CorpusCap+200)
}

func TestGenerateDeniedByLimiterIs429(t *testing.T) {
	repo := memory.NewCorpusRepository()
	seedCorpus(repo, "s1", "notes")
	svc := NewGenerateService(repo, &scriptedLLM{}, newFakeUowFactory(), denyLimiter{}, nil, nopLogger{})

	_, err := svc.Generate(context.Background(), nil, &dto.GenerateRequest{
		SessionId:  "s1",
		OutputType: constant.OutputNarrative,
	})
	fe, ok := err.(*fiber.Error)
	assert.True(t, ok)
	assert.Equal(t, fiber.StatusTooManyRequests, fe.Code)
}
