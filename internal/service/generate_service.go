package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"prepareup-be/internal/constant"
	"prepareup-be/internal/dto"
	"prepareup-be/internal/entity"
	"prepareup-be/internal/pkg/logger"
	"prepareup-be/internal/repository/memory"
	"prepareup-be/internal/repository/unitofwork"
	"prepareup-be/pkg/events"
	"prepareup-be/pkg/llm"
	natspub "prepareup-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerateService interface {
	// Generate returns the structured artifact payload as raw JSON; the
	// shape depends on the requested output type.
	Generate(ctx context.Context, userId *uuid.UUID, req *dto.GenerateRequest) (json.RawMessage, error)
}

type generateService struct {
	corpusRepo     *memory.CorpusRepository
	llmProvider    llm.LLMProvider
	uowFactory     unitofwork.RepositoryFactory
	limiter        IUsageLimiterService
	eventPublisher *natspub.Publisher
	log            logger.ILogger
}

func NewGenerateService(
	corpusRepo *memory.CorpusRepository,
	llmProvider llm.LLMProvider,
	uowFactory unitofwork.RepositoryFactory,
	limiter IUsageLimiterService,
	eventPublisher *natspub.Publisher,
	log logger.ILogger,
) IGenerateService {
	return &generateService{
		corpusRepo:     corpusRepo,
		llmProvider:    llmProvider,
		uowFactory:     uowFactory,
		limiter:        limiter,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// readCorpus resolves a backend session id to its capped extracted text.
// Shared by generate and chat.
func readCorpus(corpusRepo *memory.CorpusRepository, sessionId string) (string, error) {
	corpus, ok := corpusRepo.Get(sessionId)
	if !ok {
		return "", fiber.NewError(fiber.StatusNotFound, "Session not found or expired.")
	}
	text := strings.TrimSpace(corpus.Text)
	if text == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "No extracted text available for this session.")
	}
	if len(text) > constant.CorpusCap {
		text = text[:constant.CorpusCap]
	}
	return text, nil
}

func (s *generateService) Generate(ctx context.Context, userId *uuid.UUID, req *dto.GenerateRequest) (json.RawMessage, error) {
	limiterKey := req.SessionId
	if userId != nil {
		limiterKey = userId.String()
	}
	if ok, _ := s.limiter.Allow(ctx, limiterKey); !ok {
		return nil, fiber.NewError(fiber.StatusTooManyRequests, "Daily generation limit reached.")
	}

	corpus, err := readCorpus(s.corpusRepo, req.SessionId)
	if err != nil {
		return nil, err
	}

	count := constant.DefaultFlashcards
	if req.Count != nil {
		count = *req.Count
	}

	systemPrompt, userInstruction := buildGenerationPrompt(req.OutputType, corpus, count)

	job := s.recordJob(ctx, userId, req)

	raw, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: constant.ChatMessageRoleUser, Content: userInstruction},
	}, llm.WithJSONOutput())
	if err != nil {
		s.finishJob(ctx, job, nil, err)
		return nil, fiber.NewError(fiber.StatusBadGateway, "Model request failed.")
	}

	payload, err := normalizeGeneration(req.OutputType, raw)
	if err != nil {
		s.finishJob(ctx, job, nil, err)
		return nil, fiber.NewError(fiber.StatusBadGateway, "Model returned invalid JSON.")
	}

	s.finishJob(ctx, job, payload, nil)
	s.eventPublisher.Publish(ctx, events.GenerationCompleted(req.SessionId, req.OutputType))

	s.log.Info("generate", "Artifact generated", map[string]interface{}{
		"session_id":  req.SessionId,
		"output_type": req.OutputType,
	})

	return payload, nil
}

func buildGenerationPrompt(outputType, corpus string, count int) (systemPrompt, userInstruction string) {
	switch outputType {
	case constant.OutputFlashCard:
		return constant.FlashcardSystemPrompt,
			fmt.Sprintf("CONTENT:\n%s\n\nMake exactly %d flashcards.", corpus, count)
	case constant.OutputPodcast:
		return constant.PodcastSystemPrompt,
			fmt.Sprintf("CONTENT:\n%s\n\nReturn JSON matching the schema: speakers (2 names) and script (array of turns).", corpus)
	case constant.OutputStudyGuide:
		return constant.StudyGuideSystemPrompt,
			fmt.Sprintf("CONTENT:\n%s\n\nReturn a study guide as plain text in the 'text' field.", corpus)
	default:
		return constant.NarrativeSystemPrompt,
			fmt.Sprintf("CONTENT:\n%s\n\nReturn the narrative as plain text in the 'text' field.", corpus)
	}
}

// normalizeGeneration parses the model reply into the expected shape and
// force-corrects the type tag on text outputs so the UI never sees a
// mismatched artifact.
func normalizeGeneration(outputType, raw string) (json.RawMessage, error) {
	switch outputType {
	case constant.OutputFlashCard:
		var payload dto.FlashcardsPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil, err
		}
		if len(payload.Cards) == 0 {
			return nil, fmt.Errorf("flashcard payload has no cards")
		}
		payload.Type = constant.OutputFlashCard
		return json.Marshal(payload)
	case constant.OutputPodcast:
		var payload dto.PodcastPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil, err
		}
		if len(payload.Script) == 0 {
			return nil, fmt.Errorf("podcast payload has no script")
		}
		payload.Type = constant.OutputPodcast
		return json.Marshal(payload)
	default:
		var payload dto.TextPayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return nil, err
		}
		if payload.Text == "" {
			return nil, fmt.Errorf("text payload is empty")
		}
		payload.Type = outputType
		return json.Marshal(payload)
	}
}

// Job rows are best-effort bookkeeping; a database hiccup never blocks
// the generation itself.
func (s *generateService) recordJob(ctx context.Context, userId *uuid.UUID, req *dto.GenerateRequest) *entity.GenerationJob {
	job := &entity.GenerationJob{
		Id:         uuid.New(),
		UserId:     userId,
		SessionId:  req.SessionId,
		OutputType: req.OutputType,
		Status:     entity.JobStatusQueued,
		CreatedAt:  time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GenerationJobRepository().Create(ctx, job); err != nil {
		s.log.Warn("generate", "Failed to record generation job", map[string]interface{}{"error": err.Error()})
	}
	return job
}

func (s *generateService) finishJob(ctx context.Context, job *entity.GenerationJob, payload json.RawMessage, genErr error) {
	now := time.Now()
	job.Status = entity.JobStatusCompleted
	if genErr != nil {
		job.Status = entity.JobStatusFailed
		job.Error = genErr.Error()
	}
	job.Payload = payload
	job.UpdatedAt = &now

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GenerationJobRepository().Update(ctx, job); err != nil {
		s.log.Warn("generate", "Failed to update generation job", map[string]interface{}{"error": err.Error()})
	}
}
