package main

import (
	"context"
	"log"
	"time"

	"github.com/badalku27/WhatsApp-Web-Clone/config"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/handler"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/ingest"
	appredis "github.com/badalku27/WhatsApp-Web-Clone/internal/redis"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/server"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/services"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/storage"
	appwebsocket "github.com/badalku27/WhatsApp-Web-Clone/internal/websocket"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/database"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"
)

type indexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Datastore connects in the background with retry. Requests made
	// before the first successful connect fail fast with 503.
	mongo := database.NewMongo(database.Config{
		URI:       cfg.MongoURI,
		DBName:    cfg.MongoDBName,
		RetryWait: cfg.MongoRetryWait,
	}, l)
	mongo.Start()
	defer mongo.Close(context.Background())

	messageRepo := repository.NewMessageRepository(mongo)
	statusRepo := repository.NewStatusRepository(mongo)
	contactRepo := repository.NewContactRepository(mongo)
	go ensureIndexes(ctx, mongo, l, messageRepo, statusRepo, contactRepo)

	media, err := buildMediaStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	hub := appwebsocket.NewHub()
	go hub.Run(ctx)

	var broadcaster events.Broadcaster
	var limiter *appredis.RateLimiter
	if cfg.RedisEnabled() {
		appredis.Initialize(appredis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		client := appredis.GetClient()

		// Events flow through Redis so every instance, this one
		// included, feeds its hub from the subscription.
		broadcaster = events.NewChannelBroadcaster(appredis.NewPublisher(client), events.ChannelEvents)
		bridge := appwebsocket.NewRedisBridge(appredis.NewSubscriber(client), hub)
		go func() {
			if err := bridge.Run(ctx, []string{events.ChannelEvents}); err != nil {
				l.Errorf("redis bridge stopped: %s", err)
			}
		}()

		limiter = appredis.NewRateLimiter(client, appredis.RateLimitConfig{
			SendLimit:  cfg.SendRateLimit,
			SendWindow: cfg.SendRateWindow,
		})
	} else {
		broadcaster = events.NewHubBroadcaster(hub)
	}

	contactService := services.NewContactService(contactRepo, media, broadcaster, l)
	simulator := services.NewDeliverySimulator(messageRepo, broadcaster, l, cfg.DeliveredDelay, cfg.ReadDelay)
	messageService := services.NewMessageService(messageRepo, contactService, broadcaster, simulator, l)
	chatService := services.NewChatService(messageRepo, contactRepo)
	statusService := services.NewStatusService(statusRepo, contactService, media, broadcaster, l)
	gateway := ingest.NewGateway(messageService, l)

	handlers := &server.Handlers{
		Chat:    handler.NewChatHandler(chatService, messageService),
		Message: handler.NewMessageHandler(messageService),
		Status:  handler.NewStatusHandler(statusService, contactService),
		User:    handler.NewUserHandler(contactService),
		Ingest:  handler.NewIngestHandler(gateway),
		Admin:   handler.NewAdminHandler(mongo),
		WS:      appwebsocket.NewHandler(hub, broadcaster, l),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}

func buildMediaStore(ctx context.Context, cfg *config.Config) (storage.MediaStore, error) {
	if cfg.S3Enabled() {
		return storage.NewS3Store(ctx, storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
		})
	}
	return storage.NewLocalStore(cfg.UploadDir)
}

// ensureIndexes waits for the first successful connect, then creates
// indexes best-effort. Index failures are logged, not fatal.
func ensureIndexes(ctx context.Context, mongo *database.Mongo, l *logger.Logger, repos ...interface{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if _, err := mongo.Database(); err != nil {
			continue
		}
		for _, repo := range repos {
			ensurer, ok := repo.(indexEnsurer)
			if !ok {
				continue
			}
			if err := ensurer.EnsureIndexes(ctx); err != nil {
				l.Warnf("index creation failed: %s", err)
			}
		}
		return
	}
}
