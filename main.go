package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatroom/server/internal/config"
	"chatroom/server/internal/database"
	"chatroom/server/internal/events"
	"chatroom/server/internal/handlers"
	"chatroom/server/internal/logger"
	"chatroom/server/internal/repository"
	"chatroom/server/internal/routes"
	"chatroom/server/internal/service"
	"chatroom/server/internal/session"
	ws "chatroom/server/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg, foundEnv, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Get().Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.AppEnv)
	log := *logger.Get()
	if !foundEnv {
		log.Info().Msg("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		messages  repository.MessageRepository
		directory repository.DirectoryRepository
	)
	if cfg.UsesMemoryStore() {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		store := repository.NewMemoryStore()
		messages, directory = store, store
	} else {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
		log.Info().Msg("Database connected")

		messages = repository.NewPostgresStore(pool)
		directory = repository.NewPostgresDirectory(pool)
	}

	hub := ws.NewHub(directory, log)
	go hub.Run(ctx)

	notifiers := events.Fanout{hub}
	if cfg.NATSURL != "" {
		publisher, err := events.NewNATSPublisher(ctx, events.NATSConfig{
			URL:           cfg.NATSURL,
			Stream:        cfg.NATSStream,
			SubjectPrefix: cfg.NATSSubjectPrefix,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
		defer publisher.Close()

		notifiers = append(notifiers, publisher)
		log.Info().Str("url", cfg.NATSURL).Msg("Publishing message events to NATS")
	}

	h := routes.Handlers{
		Messages:      handlers.NewMessageHandler(service.NewMessageService(messages, notifiers, log), log),
		Conversations: handlers.NewConversationHandler(service.NewConversationService(messages), log),
		Views:         handlers.NewViewHandler(service.NewViewService(directory), log),
		WebSocket:     handlers.NewWebSocketHandler(hub),
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(app, h, session.NewCodec(cfg.SessionSecret), cfg.LoginPath)

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
