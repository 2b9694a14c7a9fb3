package bootstrap

import (
	"context"
	"log"
	"time"

	"markethub-be/internal/config"
	"markethub-be/internal/controller"
	"markethub-be/internal/handler"
	"markethub-be/internal/pkg/logger"
	"markethub-be/internal/pkg/mailer"
	"markethub-be/internal/repository/implementation"
	"markethub-be/internal/repository/memory"
	"markethub-be/internal/repository/unitofwork"
	"markethub-be/internal/service"
	"markethub-be/internal/websocket"
	"markethub-be/pkg/gateway"

	pktNats "markethub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	PaymentController controller.IPaymentController
	BookingController controller.IBookingController
	OrderController   controller.IOrderController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	SweepService    service.ISweepService

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

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
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

	// Payment Gateway
	paymentGateway := gateway.NewMidtransGateway(
		cfg.Midtrans.ServerKey,
		cfg.Midtrans.WebhookSecret,
		cfg.Midtrans.IsProduction,
		10*time.Second,
	)
	refCache := memory.NewReferenceCache()

	// 3. Services
	authService := service.NewAuthService(uowFactory, cfg, sysLogger)
	paymentService := service.NewPaymentService(
		uowFactory,
		paymentGateway,
		refCache,
		pubSub,
		natsPub,
		cfg,
		sysLogger,
	)
	bookingService := service.NewBookingService(uowFactory, natsPub, sysLogger)
	orderService := service.NewOrderService(uowFactory)
	sweepService := service.NewSweepService(uowFactory, emailService, natsPub, cfg, sysLogger)

	consumerService := service.NewConsumerService(
		pubSub,
		service.OrderConfirmationTopic,
		emailService,
	)

	// 3.5 Notification System Infrastructure
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService),
		PaymentController:   controller.NewPaymentController(paymentService),
		BookingController:   controller.NewBookingController(bookingService),
		OrderController:     controller.NewOrderController(orderService),

		ConsumerService: consumerService,
		SweepService:    sweepService,
	}
}
