package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/config"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/database"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/handler"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/middleware"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/repository"
	"github.com/snehajha1230/ELARIA-HOME-sub001/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	helperRepo := repository.NewHelperRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	dispatcher := service.NewDispatcher()
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo)
	chatSvc := service.NewChatService(sessionRepo, userRepo, notificationSvc, dispatcher)
	requestSvc := service.NewRequestService(requestRepo, helperRepo, userRepo,
		chatSvc, notificationSvc, dispatcher, cfg.HelperResponseEvent)
	helperSvc := service.NewHelperService(helperRepo)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// API v1, JWT-protected
	v1 := app.Group("/api/v1", middleware.Auth(cfg.JWTSecret))

	// Helpers
	helperH := handler.NewHelperHandler(helperSvc)
	v1.Get("/helpers", helperH.List)
	v1.Put("/helpers/availability", helperH.SetAvailability)

	// Chat requests
	requestH := handler.NewRequestHandler(requestSvc)
	v1.Post("/chat/requests", middleware.RateLimit(20, time.Minute), requestH.Create)
	v1.Get("/chat/requests/pending", requestH.ListPending)
	v1.Post("/chat/requests/:id/respond", requestH.Respond)

	// Sessions
	chatH := handler.NewChatHandler(chatSvc)
	v1.Get("/chat/sessions", chatH.ListSessions)
	v1.Get("/chat/sessions/by-request/:requestId", chatH.GetSessionByRequest)
	v1.Get("/chat/sessions/:id", chatH.GetSession)
	v1.Post("/chat/sessions/:id/messages", middleware.RateLimit(120, time.Minute), chatH.SendMessage)
	v1.Post("/chat/sessions/:id/close", chatH.CloseSession)

	// Notifications
	notificationH := handler.NewNotificationHandler(notificationSvc)
	v1.Get("/notifications/unread", notificationH.ListUnread)
	v1.Put("/notifications/:id/read", notificationH.MarkRead)

	// WebSocket
	wsH := handler.NewWSHandler(dispatcher, chatSvc, cfg.JWTSecret)
	app.Get("/ws", wsH.Upgrade)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("ELARIA chat engine running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	dispatcher.Shutdown()
	log.Println("Server stopped")
}
