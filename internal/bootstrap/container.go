package bootstrap

import (
	"context"
	"log"
	"time"

	"hk-explorer-be/internal/config"
	"hk-explorer-be/internal/controller"
	"hk-explorer-be/internal/pkg/logger"
	"hk-explorer-be/internal/repository/unitofwork"
	"hk-explorer-be/internal/service"
	"hk-explorer-be/internal/tools"
	forumws "hk-explorer-be/internal/websocket"
	"hk-explorer-be/pkg/agent"
	"hk-explorer-be/pkg/events"
	"hk-explorer-be/pkg/guard"
	"hk-explorer-be/pkg/llm"
	"hk-explorer-be/pkg/llm/factory"
	"hk-explorer-be/pkg/metrics"

	pktNats "hk-explorer-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ExplorerController controller.IExplorerController
	ImportController   controller.IImportController
	ForumController    controller.IForumController
	HealthController   controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ActivityService service.IActivityService // nil when NATS is unreachable
	ForumHub        *forumws.Hub

	Metrics *metrics.Metrics
	Logger  logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx := context.Background()

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)
	appMetrics := metrics.New()

	c := &Container{Metrics: appMetrics, Logger: sysLogger}
	c.closers = append(c.closers, func() { _ = llmLogger.Sync() }, func() { _ = sysLogger.Sync() })

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	var hubRedis redis.UniversalClient = rdb
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Forum feed stays local", err)
		hubRedis = nil
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	submissionGuard := guard.NewFallback(guard.NewRedisGuard(rdb, "hk-explorer:verify:"), guard.NewMemoryGuard(), sysLogger)

	c.ForumHub = forumws.NewHub(hubRedis, sysLogger)

	// NATS. Every event also reaches the forum hub, which keeps forum.posted.
	eventPublisher := events.Fanout{c.ForumHub}
	natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = append(eventPublisher, natsPub)
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		c.ActivityService = service.NewActivityService(natsSub, uowFactory, eventPublisher, sysLogger)
		c.closers = append(c.closers, natsSub.Close)
	}

	// 3. Generation
	textProvider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.ProviderBaseURL(),
		APIKey:   cfg.APIKey(),
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	visionModel := cfg.Ai.VisionModel
	if visionModel == "" {
		visionModel = cfg.Ai.LLMModel
	}
	visionProvider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    visionModel,
		BaseURL:  cfg.ProviderBaseURL(),
		APIKey:   cfg.APIKey(),
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize vision provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s, vision %s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel, visionModel)

	textProvider = llm.WithLogging(textProvider, cfg.Ai.LLMProvider, llmLogger)
	visionProvider = llm.WithLogging(visionProvider, cfg.Ai.LLMProvider+"-vision", llmLogger)
	runner := llm.NewRunner(textProvider, cfg.Ai.MaxToolRounds)

	// 4. Services
	gateway := tools.NewGateway(uowFactory, eventPublisher, sysLogger)

	planner := agent.NewPlanner(textProvider, sysLogger)
	researcher := agent.NewResearcher(runner, gateway, gateway.Toolbox(agent.ResearchTools...), sysLogger)
	guide := agent.NewGuide(runner, gateway.Toolbox(tools.AllTools...), sysLogger)

	chatService := service.NewChatService(planner, researcher, guide, sysLogger, appMetrics)
	verificationService := service.NewVerificationService(
		uowFactory,
		visionProvider,
		submissionGuard,
		eventPublisher,
		service.VerificationConfig{
			ThresholdMeters: cfg.Verification.GeofenceThresholdMeters,
			MinConfidence:   cfg.Verification.MinConfidence,
			LockTTL:         time.Duration(cfg.Verification.LockSeconds) * time.Second,
		},
		sysLogger,
		appMetrics,
	)
	routeService := service.NewRouteService(runner, gateway, gateway.Toolbox(service.RouteTools...), sysLogger, appMetrics)
	browseService := service.NewBrowseService(runner, gateway, gateway.Toolbox(service.BrowseTools...), sysLogger, appMetrics)

	publisherService := service.NewPublisherService(cfg.Import.TopicName, pubSub)
	importService := service.NewImportService(uowFactory, publisherService, eventPublisher, sysLogger, appMetrics)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Import.TopicName, importService, sysLogger)

	// 5. Controllers
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[FATAL] Failed to access database pool: %v", err)
	}
	c.ExplorerController = controller.NewExplorerController(chatService, verificationService, routeService, browseService)
	c.ImportController = controller.NewImportController(importService)
	c.ForumController = controller.NewForumController(gateway, c.ForumHub)
	c.HealthController = controller.NewHealthController(sqlDB)

	return c
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
