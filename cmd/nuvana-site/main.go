package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nuvana-site/internal/api"
	"nuvana-site/internal/api/handlers"
	"nuvana-site/internal/conversation"
	"nuvana-site/internal/knowledge"
	"nuvana-site/internal/repository"
	"nuvana-site/internal/service"
	"nuvana-site/pkg/auth"
	"nuvana-site/pkg/config"
	"nuvana-site/pkg/logger"
	"nuvana-site/pkg/postgres"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title NuvanaCore Site API
// @version 1.0
// @description Backend for the NuvanaCore landing page: Bloom assistant, chat sessions, FAQ and contact inbox

// @contact.name NuvanaCore Team

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.File); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting NuvanaCore site service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Knowledge base
	base := knowledge.Default()
	if cfg.Knowledge.File != "" {
		base, err = knowledge.LoadFile(cfg.Knowledge.File)
		if err != nil {
			appLogger.Fatal("Failed to load knowledge base", zap.String("file", cfg.Knowledge.File), zap.Error(err))
		}
	}
	appLogger.Info("Knowledge base loaded", zap.Int("records", base.Len()))

	greeting, prompts, err := knowledge.Prompts()
	if err != nil {
		appLogger.Fatal("Failed to load chat prompts", zap.Error(err))
	}
	faq, err := knowledge.FAQ()
	if err != nil {
		appLogger.Fatal("Failed to load FAQ", zap.Error(err))
	}

	// Initialize database
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Initialize repositories
	contactRepo := repository.NewContactRepository(db, appLogger)
	lookupRepo := repository.NewLookupRepository(db, appLogger)
	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)
	if _, err := knowledgeRepo.Sync(ctx, base.Records()); err != nil {
		appLogger.Warn("Failed to sync knowledge base", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	replyService := service.NewReplyService(base, lookupRepo, appLogger)
	authService := service.NewAuthService(cfg.Admin, jwtManager, appLogger)

	contactService := service.NewContactService(contactRepo, cfg.Contact.SubjectPrefix, appLogger)

	sessions := conversation.NewManager(conversation.ManagerConfig{
		Greeting:      greeting,
		ReplyDelay:    cfg.Chat.ReplyDelay,
		SessionTTL:    cfg.Chat.SessionTTL,
		SweepInterval: cfg.Chat.SweepInterval,
	}, conversation.ReplierFunc(func(ctx context.Context, input string) string {
		return replyService.Reply(ctx, input).Answer
	}), appLogger)

	// Initialize handlers
	app := api.SetupRouter(api.Handlers{
		Assistant: handlers.NewAssistantHandler(replyService, greeting, prompts, faq, appLogger),
		Chat:      handlers.NewChatHandler(sessions, appLogger),
		Contact:   handlers.NewContactHandler(contactService, appLogger),
		Auth:      handlers.NewAuthHandler(authService, appLogger),
		Stats:     handlers.NewStatsHandler(lookupRepo, appLogger),
	}, jwtManager, cfg.Server, appLogger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		return app.Listen(addr)
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server")
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
	}
}
