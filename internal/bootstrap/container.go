package bootstrap

import (
	"context"
	"log"

	"ai-imagestudio-be/internal/config"
	"ai-imagestudio-be/internal/controller"
	"ai-imagestudio-be/internal/handler"
	"ai-imagestudio-be/internal/pkg/logger"
	"ai-imagestudio-be/internal/pkg/mailer"
	"ai-imagestudio-be/internal/pkg/storage"
	"ai-imagestudio-be/internal/repository/implementation"
	"ai-imagestudio-be/internal/repository/memory"
	"ai-imagestudio-be/internal/repository/unitofwork"
	"ai-imagestudio-be/internal/service"
	"ai-imagestudio-be/internal/websocket"
	"ai-imagestudio-be/pkg/embedding"
	imagefactory "ai-imagestudio-be/pkg/imagen/factory"
	"ai-imagestudio-be/pkg/removal"
	removalfactory "ai-imagestudio-be/pkg/removal/factory"

	pktNats "ai-imagestudio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ImageController  controller.IImageController
	CreditController controller.ICreditController
	UserController   controller.IUserController
	AuthController   controller.IAuthController
	OAuthController  controller.IOAuthController
	AdminController  controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
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

	store := storage.NewLocalStore(cfg.App.UploadDir, cfg.App.BaseURL)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize Image Provider based on Config
	imageKey := cfg.Keys.GoogleGemini
	if cfg.Ai.ImageProvider == "huggingface" {
		imageKey = cfg.Keys.HuggingFace
	}
	imageProvider, err := imagefactory.NewImageProvider(
		cfg.Ai.ImageProvider,
		imageKey,
		"",
		cfg.Ai.ImageModel,
		cfg.Ai.HTTPTimeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Image Provider: %v", err)
	}
	log.Printf("[INFO] Using Image Provider: %s", cfg.Ai.ImageProvider)

	// Background removal runs on two tiers. Fast is always on (self-hosted
	// rembg); quality only when a remove.bg key is present.
	fastRemoval, err := removalfactory.NewRemovalProvider("rembg", "", cfg.Ai.RembgBaseURL, cfg.Ai.HTTPTimeout)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Removal Provider: %v", err)
	}
	var qualityRemoval removal.RemovalProvider
	if cfg.Keys.RemoveBg != "" {
		qualityRemoval, err = removalfactory.NewRemovalProvider("removebg", cfg.Keys.RemoveBg, cfg.Ai.RemoveBgBaseURL, cfg.Ai.HTTPTimeout)
		if err != nil {
			log.Printf("[WARN] Failed to initialize remove.bg provider: %v. Quality mode disabled", err)
		} else {
			log.Printf("[INFO] Using Quality Removal Provider: REMOVE.BG")
		}
	} else {
		log.Printf("[INFO] REMOVEBG_API_KEY not set. Quality removal mode disabled")
	}

	// Initialize In-Memory OAuth State Storage
	stateRepo := memory.NewStateRepository()

	// 3.5 Infrastructure (Moved up for dependency injection)
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
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
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Ai.GeneratedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.GeneratedTopic,
		uowFactory,
		embeddingProvider, // Injected
	)

	creditService := service.NewCreditService(uowFactory, cfg.Credits.SignupCredits)
	userService := service.NewUserService(uowFactory, store, natsPub)
	authService := service.NewAuthService(uowFactory, emailService, creditService, natsPub)
	oauthService := service.NewOAuthService(uowFactory, creditService, stateRepo)

	generationService := service.NewGenerationService(
		uowFactory,
		imageProvider,
		store,
		publisherService,
		embeddingProvider, // Injected
		natsPub,
		sysLogger,
		cfg.Ai.ImageProvider,
		cfg.Ai.MaxImages,
	)
	editService := service.NewEditService(
		uowFactory,
		fastRemoval,
		qualityRemoval, // May be nil; the service rejects quality requests then
		store,
		natsPub,
		sysLogger,
	)

	paymentService := service.NewPaymentService(uowFactory, natsPub)
	adminService := service.NewAdminService(uowFactory, sysLogger, natsPub)

	// 4.5 Notification System Infrastructure
	// Notification Domain
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	// 5. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		ImageController:     controller.NewImageController(generationService, editService),
		CreditController:    controller.NewCreditController(creditService, paymentService),
		UserController:      controller.NewUserController(userService),
		AuthController:      controller.NewAuthController(authService, userService),
		OAuthController:     controller.NewOAuthController(oauthService),
		AdminController:     controller.NewAdminController(adminService, authService),

		ConsumerService: consumerService,
	}
}
