package bootstrap

import (
	"context"
	"log"

	"fintrust-support-be/internal/config"
	"fintrust-support-be/internal/controller"
	"fintrust-support-be/internal/handler"
	"fintrust-support-be/internal/pkg/logger"
	"fintrust-support-be/internal/pkg/mailer"
	"fintrust-support-be/internal/presence"
	"fintrust-support-be/internal/repository/memory"
	"fintrust-support-be/internal/repository/unitofwork"
	"fintrust-support-be/internal/service"
	"fintrust-support-be/internal/websocket"

	pktNats "fintrust-support-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	ChatController  controller.IChatController
	TradeController controller.ITradeController

	NotificationHandler *handler.NotificationHandler

	// Realtime plumbing
	Gateway      *websocket.Gateway
	WebSocketHub *websocket.Hub
	Registry     presence.Registry

	// Background services main.go starts and stops.
	TradeService        service.ITradeService
	NotificationService service.INotificationService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// In-process event bus for the trade collaborator.
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis backs cross-instance websocket fan-out.
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Realtime domain: registry, hub, session store.
	registry := presence.NewMemoryRegistry()
	sessionRepo := memory.NewSessionRepository()
	rtLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	wsHub := websocket.NewHub(registry, rdb, rtLogger)
	go wsHub.Run()

	// Services
	authService := service.NewAuthService(uowFactory)
	agentService := service.NewAgentService(uowFactory)
	assignmentService := service.NewAssignmentService(uowFactory, registry, natsPub, rtLogger)
	chatService := service.NewChatService(uowFactory, natsPub, wsHub, sysLogger)
	messageService := service.NewMessageService(uowFactory, wsHub, sysLogger)
	notifService := service.NewNotificationService(uowFactory, natsSub, wsHub, emailService, sysLogger)
	tradeService := service.NewTradeService(pubSub, pubSub, cfg.Chat.TradeCompletedTopic, chatService, sysLogger)

	gateway := websocket.NewGateway(registry, wsHub, sessionRepo, authService, agentService, assignmentService, rtLogger)

	notifHandler := handler.NewNotificationHandler(notifService)

	return &Container{
		AuthController:  controller.NewAuthController(authService),
		ChatController:  controller.NewChatController(chatService, messageService),
		TradeController: controller.NewTradeController(tradeService),

		NotificationHandler: notifHandler,

		Gateway:      gateway,
		WebSocketHub: wsHub,
		Registry:     registry,

		TradeService:        tradeService,
		NotificationService: notifService,
	}
}
