package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	_ "vidtube/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"vidtube/internal/auth"
	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/db"
	"vidtube/internal/handler"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/router"
	"vidtube/internal/service"
)

// @title Vidtube API
// @version 1.0
// @description Video-sharing backend with JWT session management, channel profiles, and media uploads.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Subscription{},
		&model.Video{},
		&model.WatchHistory{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	uploader, err := media.NewS3Uploader(context.Background(), cfg)
	if err != nil {
		log.Fatalf("media host init: %v", err)
	}
	mediaValidator := media.NewValidator()

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	subRepo := repository.NewSubscriptionRepository(gormDB)
	videoRepo := repository.NewVideoRepository(gormDB)
	historyRepo := repository.NewWatchHistoryRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	// Services
	sessionService := service.NewSessionService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, subRepo, historyRepo, uploader, mediaValidator, cacheClient)
	subscriptionService := service.NewSubscriptionService(subRepo, userRepo, cacheClient)
	videoService := service.NewVideoService(videoRepo, userRepo, historyRepo, uploader, mediaValidator)

	// Handlers
	authHandler := handler.NewAuthHandler(sessionService, userService)
	userHandler := handler.NewUserHandler(userService, jwtService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	videoHandler := handler.NewVideoHandler(videoService, jwtService)

	router.Register(
		e,
		jwtService,
		authHandler,
		userHandler,
		subscriptionHandler,
		videoHandler,
	)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(swaggerHost, "http://") && !strings.HasPrefix(swaggerHost, "https://") {
		swaggerHost = "http://" + swaggerHost
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
