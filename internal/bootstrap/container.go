package bootstrap

import (
	"context"
	"log"

	"github.com/YohanReddy/ai-chatbot/internal/config"
	"github.com/YohanReddy/ai-chatbot/internal/constant"
	"github.com/YohanReddy/ai-chatbot/internal/controller"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/logger"
	"github.com/YohanReddy/ai-chatbot/internal/pkg/serverutils"
	"github.com/YohanReddy/ai-chatbot/internal/repository/unitofwork"
	"github.com/YohanReddy/ai-chatbot/internal/service"
	"github.com/YohanReddy/ai-chatbot/pkg/ai/tools"
	"github.com/YohanReddy/ai-chatbot/pkg/artifact"
	"github.com/YohanReddy/ai-chatbot/pkg/chat/quota"
	"github.com/YohanReddy/ai-chatbot/pkg/chat/stream"
	"github.com/YohanReddy/ai-chatbot/pkg/chat/title"
	"github.com/YohanReddy/ai-chatbot/pkg/llm"
	"github.com/YohanReddy/ai-chatbot/pkg/llm/factory"
	pktNats "github.com/YohanReddy/ai-chatbot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	ChatController     controller.IChatController
	DocumentController controller.IDocumentController

	orchestrator *stream.Orchestrator
	pubSub       *gochannel.GoChannel
	natsPub      *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// 2. Model backend
	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Type:      cfg.Ai.LLMProvider,
		BaseURL:   providerBaseURL(cfg),
		APIKey:    cfg.Ai.OpenAIAPIKey,
		ModelName: cfg.Ai.ChatModel,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.ChatModel)

	models := llm.ModelCatalog{
		constant.ChatModelDefault:   cfg.Ai.ChatModel,
		constant.ChatModelReasoning: cfg.Ai.ReasoningModel,
		constant.TitleModel:         cfg.Ai.TitleModel,
		constant.ArtifactModel:      cfg.Ai.ArtifactModel,
	}

	// 3. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	// gochannel drops messages nobody listens to, so the consumer subscribes first.
	consumerService := service.NewConsumerService(pubSub, constant.AssistantMessageTopic, uowFactory, sysLogger)
	if err := consumerService.Consume(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to start assistant message consumer: %v", err)
	}
	publisherService := service.NewPublisherService(constant.AssistantMessageTopic, pubSub)

	var bus service.EventBus
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			bus = natsPub
		}
	}
	eventPublisher := service.NewEventPublisher(bus, sysLogger)

	// 4. Services
	documentService := service.NewDocumentService(uowFactory, eventPublisher)

	artifactGen := artifact.Generator{Provider: llmProvider, Model: cfg.Ai.ArtifactModel}
	handlers := []artifact.Handler{
		artifact.NewTextHandler(artifactGen),
		artifact.NewCodeHandler(artifactGen),
		artifact.NewSheetHandler(artifactGen),
	}
	if images := factory.NewImageGenerator(llmProvider); images != nil {
		handlers = append(handlers, artifact.NewImageHandler(images, cfg.Ai.ImageModel))
	} else {
		log.Printf("[WARN] LLM Provider %s cannot generate images; image documents are disabled", cfg.Ai.LLMProvider)
	}

	toolDeps := tools.Deps{
		Weather:     tools.NewWeatherClient(cfg.Tools.WeatherBaseURL),
		Artifacts:   artifact.NewDispatcher(documentService, sysLogger, handlers...),
		Documents:   documentService,
		Suggestions: artifactGen,
		Logger:      sysLogger,
	}

	chatService := service.NewChatService(
		uowFactory,
		quota.NewGate(),
		title.NewGenerator(llmProvider, cfg.Ai.TitleModel, sysLogger),
		eventPublisher,
		sysLogger,
	)

	orchestrator := stream.NewOrchestrator(llmProvider, models, toolDeps, publisherService, sysLogger, stream.Config{
		MaxDuration: cfg.App.StreamMaxDuration,
		SmoothDelay: stream.DefaultSmoothDelay,
	})

	// 5. Controllers
	resolver := serverutils.NewJwtIdentityResolver(cfg.Auth.JwtSecret)

	return &Container{
		Logger:             sysLogger,
		ChatController:     controller.NewChatController(chatService, documentService, orchestrator, resolver),
		DocumentController: controller.NewDocumentController(documentService, resolver),

		orchestrator: orchestrator,
		pubSub:       pubSub,
		natsPub:      natsPub,
	}
}

// Shutdown waits for in-flight reconciliations, then closes the buses.
func (c *Container) Shutdown() {
	c.orchestrator.Wait()
	if err := c.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close event bus: %v", err)
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
}

func providerBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "openai" {
		return cfg.Ai.OpenAIBaseURL
	}
	return cfg.Ai.OllamaBaseURL
}
