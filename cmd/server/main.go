package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/questly/backend/internal/config"
	"github.com/questly/backend/internal/database"
	"github.com/questly/backend/internal/handlers"
	"github.com/questly/backend/internal/middleware"
	"github.com/questly/backend/internal/models"
	"github.com/questly/backend/internal/services"
	"github.com/questly/backend/pkg/logger"
	"github.com/questly/backend/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationMinutes)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	accessService := services.NewAccessService(db)
	authService := services.NewAuthService(db)
	fileService := services.NewFileService(db, cfg.Upload)

	authHandler := handlers.NewAuthHandler(authService)
	filesHandler := handlers.NewFilesHandler(fileService)
	protectedHandler := handlers.NewProtectedHandler()

	authMiddleware := middleware.NewAuthMiddleware(accessService, cfg.Server.PublicPathPrefixes)

	app := fiber.New(fiber.Config{
		BodyLimit:    100 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())
	app.Use(authMiddleware.RequireAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	fileRoutes := app.Group("/files")
	fileRoutes.Get("/", filesHandler.List)
	fileRoutes.Post("/bulk-upload", filesHandler.BulkUpload)
	fileRoutes.Delete("/bulk-delete", filesHandler.BulkDelete)
	fileRoutes.Get("/:moduleName/:fileName", filesHandler.Get)

	protectedRoutes := app.Group("/protected")
	protectedRoutes.Get("/quester", middleware.RequireRole(models.RoleQuester), protectedHandler.QuesterOnly)
	protectedRoutes.Get("/requester", middleware.RequireRole(models.RoleRequester), protectedHandler.RequesterOnly)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":       cfg.Server.Port,
		"address":    listenAddr,
		"upload_dir": cfg.Upload.Dir,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
