package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"codelm-be/internal/config"
	"codelm-be/internal/controller"
	"codelm-be/internal/pkg/logger"
	"codelm-be/internal/pkg/mailer"
	"codelm-be/internal/repository/unitofwork"
	"codelm-be/internal/service"
	"codelm-be/internal/websocket"
	"codelm-be/pkg/embedding"
	"codelm-be/pkg/llm/factory"
	pktNats "codelm-be/pkg/nats"
	"codelm-be/pkg/rag/ingest"
	"codelm-be/pkg/rag/query"
	"codelm-be/pkg/reader"
	"codelm-be/pkg/storage"
	"codelm-be/pkg/textsplit"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	NotebookController controller.INotebookController
	SourceController   controller.ISourceController
	ChatController     controller.IChatController

	// Background Services (Exposed for main.go to run)
	IngestConsumerService service.IIngestConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	blobStore, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.App.BaseURL+"/uploads")
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize blob store: %v", err)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	}
	// Query embeddings repeat across a chat session; document batches bypass
	// the cache inside the decorator.
	embeddingProvider = embedding.NewCachedProvider(embeddingProvider, 15*time.Minute)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. RAG Pipelines
	readerRegistry := reader.NewRegistry()
	splitter := textsplit.New(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap)

	chunkIndex := service.NewChunkIndex(uowFactory)
	ingestPipeline := ingest.NewPipeline(
		readerRegistry,
		splitter,
		embeddingProvider,
		chunkIndex,
		sysLogger,
	)
	queryPipeline := query.NewPipeline(
		embeddingProvider,
		chunkIndex,
		llmProvider,
		service.NewExchangeStore(uowFactory),
		sysLogger,
		cfg.Rag.TopK,
		cfg.Rag.ContextCharLimit,
	)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.IngestTopic, pubSub)
	ingestConsumerService := service.NewIngestConsumerService(
		pubSub,
		cfg.App.IngestTopic,
		uowFactory,
		blobStore,
		ingestPipeline,
		natsPub,
		wsHub,
		sysLogger,
	)

	// Durable consumer of the EVENTS stream: acks lifecycle events into the
	// audit log so the work queue never accumulates.
	if natsSub != nil {
		service.NewEventLogService(natsSub, sysLogger).Start()
	}

	authService := service.NewAuthService(uowFactory, emailService, sysLogger)
	notebookService := service.NewNotebookService(uowFactory, blobStore, sysLogger)
	sourceService := service.NewSourceService(uowFactory, blobStore, readerRegistry, publisherService, sysLogger)
	chatService := service.NewChatService(uowFactory, queryPipeline)

	// 7. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		NotebookController: controller.NewNotebookController(notebookService),
		SourceController:   controller.NewSourceController(sourceService),
		ChatController:     controller.NewChatController(chatService),

		IngestConsumerService: ingestConsumerService,
		WebSocketHub:          wsHub,
	}
}
