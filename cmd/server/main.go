package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"emotivision/internal/auth"
	"emotivision/internal/cache"
	"emotivision/internal/chat"
	"emotivision/internal/config"
	"emotivision/internal/db"
	"emotivision/internal/handler"
	"emotivision/internal/imagestore"
	"emotivision/internal/jsonlog"
	"emotivision/internal/model"
	"emotivision/internal/repository"
	"emotivision/internal/router"
	"emotivision/internal/service"
	"emotivision/internal/session"
)

// @title EmotiVision API
// @version 1.0
// @description Face emotion detection backend: accounts, emotion event log, per-user stats, and the content personalization feed.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.EmotionEvent{},
			&model.SessionRecord{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.EmotionEvent{},
		&model.SessionRecord{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	mirror := jsonlog.NewStore(cfg.EmotionsDataPath)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTimeout)
	sessionStore := auth.NewSessionStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, cacheClient)
	eventService := service.NewEventService(eventRepo, sessionRepo, mirror)
	statsService := service.NewStatsService(eventRepo, sessionRepo)
	feedService := service.NewFeedService(mirror)
	chatService := chat.NewService(chat.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel))

	sessionManager := session.NewManager(authService, sessionRepo, jwtService, sessionStore, cfg.SessionTimeout)
	sessionManager.AddCollaborator(chatService)

	snapshots, err := imagestore.New(context.Background(), imagestore.Options{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Fatalf("snapshot store init: %v", err)
	}
	var snapshotStore imagestore.Store
	if snapshots != nil {
		snapshotStore = snapshots
	} else {
		log.Println("snapshot storage disabled (no S3 bucket configured)")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessionManager)
	profileHandler := handler.NewProfileHandler(authService, sessionManager)
	eventHandler := handler.NewEventHandler(eventService, snapshotStore)
	statsHandler := handler.NewStatsHandler(statsService)
	chatHandler := handler.NewChatHandler(chatService, eventService)
	feedHandler := handler.NewFeedHandler(feedService)

	// Register routes
	router.Register(
		e,
		cfg,
		sessionManager,
		authHandler,
		profileHandler,
		eventHandler,
		statsHandler,
		chatHandler,
		feedHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
