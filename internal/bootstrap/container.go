package bootstrap

import (
	"context"
	"log"

	"prepareup-be/internal/config"
	"prepareup-be/internal/controller"
	"prepareup-be/internal/ledger"
	"prepareup-be/internal/pkg/logger"
	"prepareup-be/internal/pkg/serverutils"
	"prepareup-be/internal/repository/memory"
	"prepareup-be/internal/repository/unitofwork"
	"prepareup-be/internal/service"
	"prepareup-be/pkg/llm/factory"

	pktNats "prepareup-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const persistDocumentsTopic = "PERSIST_DOCUMENTS"

type Container struct {
	// Controllers
	UploadController   controller.IUploadController
	GenerateController controller.IGenerateController
	ChatController     controller.IChatController
	SessionController  controller.ISessionController
	OAuthController    controller.IOAuthController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// In-process bus for document persistence
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// LLM provider per config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Corpus TTL store and per-user thread registry
	corpusRepo := memory.NewCorpusRepository()
	registry := ledger.NewRegistry()

	// NATS domain events; the publisher is nil-safe when the broker is
	// unreachable.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis-backed usage limiter, allow-all when redis is absent.
	var redisClient *redis.Client
	if opts, err := redis.ParseURL(cfg.App.RedisURL); err == nil {
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("[WARN] Redis unreachable, usage limits disabled: %v", err)
			redisClient = nil
		}
	} else {
		log.Printf("[WARN] Invalid REDIS_URL, usage limits disabled: %v", err)
	}

	// Services
	publisherService := service.NewPublisherService(pubSub, persistDocumentsTopic)
	consumerService := service.NewConsumerService(pubSub, persistDocumentsTopic, uowFactory, sysLogger)
	limiterService := service.NewUsageLimiterService(redisClient, int64(cfg.App.DailyAiCap), sysLogger)

	sessionService := service.NewSessionService(registry)
	uploadService := service.NewUploadService(corpusRepo, publisherService, natsPub, sysLogger)
	generateService := service.NewGenerateService(corpusRepo, llmProvider, uowFactory, limiterService, natsPub, sysLogger)
	chatService := service.NewChatService(corpusRepo, llmProvider, limiterService, natsPub, sysLogger)
	oauthService := service.NewOAuthService(service.OAuthConfig{
		GoogleClientID:      cfg.Auth.GoogleClientID,
		DiscordClientID:     cfg.Auth.DiscordClientID,
		DiscordClientSecret: cfg.Auth.DiscordClientSecret,
		DiscordRedirectURL:  cfg.Auth.DiscordRedirectURL,
		JWTSecret:           cfg.Auth.JWTSecret,
	}, uowFactory, natsPub, sysLogger)

	authMw := serverutils.NewAuthMiddleware(cfg.Auth.JWTSecret)

	return &Container{
		UploadController:   controller.NewUploadController(uploadService, sessionService, authMw),
		GenerateController: controller.NewGenerateController(generateService, sessionService, authMw),
		ChatController:     controller.NewChatController(chatService, sessionService, authMw),
		SessionController:  controller.NewSessionController(sessionService, authMw),
		OAuthController:    controller.NewOAuthController(oauthService, authMw),
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
