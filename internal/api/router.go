package api

import (
	"os"
	"path/filepath"

	"nuvana-site/docs"
	"nuvana-site/internal/api/handlers"
	"nuvana-site/pkg/auth"
	"nuvana-site/pkg/config"
	"nuvana-site/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Assistant *handlers.AssistantHandler
	Chat      *handlers.ChatHandler
	Contact   *handlers.ContactHandler
	Auth      *handlers.AuthHandler
	Stats     *handlers.StatsHandler
}

func SetupRouter(
	h Handlers,
	jwtManager *auth.JWTManager,
	cfg config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo // registers the swagger doc via init()
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	webStaticPath := findWebStaticPath(cfg.StaticDir, appLogger)
	if webStaticPath != "" {
		appLogger.Info("Serving static files", zap.String("path", webStaticPath))
		app.Static("/static", webStaticPath)
		app.Get("/", func(c *fiber.Ctx) error {
			return c.SendFile(filepath.Join(webStaticPath, "index.html"))
		})
	} else {
		appLogger.Warn("Web static directory not found, landing page will not be served")
	}

	v1 := app.Group("/api/v1")

	assistant := v1.Group("/assistant")
	assistant.Post("/reply", h.Assistant.Reply)
	assistant.Get("/prompts", h.Assistant.Prompts)
	v1.Get("/faq", h.Assistant.FAQ)

	chat := v1.Group("/chat/sessions")
	chat.Post("", h.Chat.CreateSession)
	chat.Get("/:id", h.Chat.GetSession)
	chat.Post("/:id/messages", h.Chat.SendMessage)
	chat.Delete("/:id", h.Chat.CloseSession)

	v1.Post("/contact", h.Contact.Submit)

	authGroup := v1.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Protected routes
	admin := v1.Group("/admin", middleware.AuthMiddleware(jwtManager, appLogger))
	admin.Get("/contacts", h.Contact.List)
	admin.Post("/contacts/:id/handled", h.Contact.MarkHandled)
	admin.Get("/reply-stats", h.Stats.ReplyStats)

	return app
}

// findWebStaticPath returns the first directory holding the built landing
// page, preferring the configured one.
func findWebStaticPath(configured string, logger *zap.Logger) string {
	paths := []string{
		"./web/static",
		"../web/static",
		"../../web/static",
	}
	if configured != "" {
		paths = append([]string{configured}, paths...)
	}

	for _, path := range paths {
		if fileExists(filepath.Join(path, "index.html")) {
			return path
		}
		logger.Debug("Tried static path", zap.String("path", path))
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
