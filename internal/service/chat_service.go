package service

import (
	"context"
	"encoding/json"
	"fmt"

	"prepareup-be/internal/constant"
	"prepareup-be/internal/dto"
	"prepareup-be/internal/pkg/logger"
	"prepareup-be/internal/repository/memory"
	"prepareup-be/pkg/events"
	"prepareup-be/pkg/llm"
	natspub "prepareup-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatService interface {
	Chat(ctx context.Context, userId *uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	corpusRepo     *memory.CorpusRepository
	llmProvider    llm.LLMProvider
	limiter        IUsageLimiterService
	eventPublisher *natspub.Publisher
	log            logger.ILogger
}

func NewChatService(
	corpusRepo *memory.CorpusRepository,
	llmProvider llm.LLMProvider,
	limiter IUsageLimiterService,
	eventPublisher *natspub.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		corpusRepo:     corpusRepo,
		llmProvider:    llmProvider,
		limiter:        limiter,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *chatService) Chat(ctx context.Context, userId *uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	limiterKey := req.SessionId
	if userId != nil {
		limiterKey = userId.String()
	}
	if ok, _ := s.limiter.Allow(ctx, limiterKey); !ok {
		return nil, fiber.NewError(fiber.StatusTooManyRequests, "Daily chat limit reached.")
	}

	corpus, err := readCorpus(s.corpusRepo, req.SessionId)
	if err != nil {
		return nil, err
	}

	// Only the most recent turns go to the model to keep token use bounded.
	history := req.History
	if len(history) > constant.HistoryLimit {
		history = history[len(history)-constant.HistoryLimit:]
	}

	messages := make([]llm.Message, 0, len(history)+3)
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: constant.ChatSystemPrompt,
	})
	messages = append(messages, llm.Message{
		Role: constant.ChatMessageRoleUser,
		Content: fmt.Sprintf(
			"DOCUMENTS (use as the only source):\n%s\n\nConversation so far (may reference outputs you generated):",
			corpus,
		),
	})
	for _, t := range history {
		role := constant.ChatMessageRoleUser
		if t.Role == constant.ChatMessageRoleAI {
			role = constant.ChatMessageRoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: t.Content})
	}
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: req.Message,
	})

	raw, err := s.llmProvider.Chat(ctx, messages, llm.WithJSONOutput())
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Model request failed.")
	}

	var res dto.ChatResponse
	if err := json.Unmarshal([]byte(raw), &res); err != nil || res.Answer == "" {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Model returned invalid JSON.")
	}
	res.Type = "chat"

	s.eventPublisher.Publish(ctx, events.ChatExchanged(req.SessionId, len(history)))

	s.log.Info("chat", "Chat turn answered", map[string]interface{}{
		"session_id": req.SessionId,
		"history":    len(history),
	})

	return &res, nil
}
