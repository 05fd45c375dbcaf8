package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/cliptube/backend/config"
	"github.com/cliptube/backend/internal/constants"
	"github.com/cliptube/backend/internal/handler"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/repository"
	"github.com/cliptube/backend/internal/router"
	"github.com/cliptube/backend/internal/service"
	"github.com/cliptube/backend/pkg/circuit"
	"github.com/cliptube/backend/pkg/database"
	"github.com/cliptube/backend/pkg/logger"
	"github.com/cliptube/backend/pkg/redis"
	"github.com/cliptube/backend/pkg/storage"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config.App.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Redis is optional; the profile cache degrades to a no-op without it
	redisClient, err := redis.NewClient(redis.Config{
		Addr:         config.RedisAddress(),
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	})
	if err != nil {
		logger.GetLogger().Warn("Redis unavailable, channel profile cache disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	assetStore, err := storage.NewS3Store(config.Storage)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize asset store", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	channelRepo := repository.NewChannelRepository(db)

	// Services
	tokenService := service.NewTokenService(config.Token)
	profileCache := service.NewProfileCache(redisClient, config.Cache.ChannelProfileTTL)
	uploadBreaker := circuit.NewBreaker("asset-store", circuit.DefaultConfig(), logger.GetLogger())
	userService := service.NewUserService(userRepo, tokenService, assetStore, uploadBreaker, profileCache)
	channelService := service.NewChannelService(userRepo, channelRepo, profileCache)

	// Middleware
	validationMiddleware := middleware.NewValidationMiddleware()
	jwtMiddleware := middleware.NewJWTMiddleware(tokenService)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, validationMiddleware)
	userHandler := handler.NewUserHandler(userService, validationMiddleware)
	channelHandler := handler.NewChannelHandler(channelService, userService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	r := router.NewRouter(
		authHandler,
		userHandler,
		channelHandler,
		healthHandler,
		jwtMiddleware,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:    ":" + config.App.Port,
		Handler: r,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Forced shutdown", zap.Error(err))
	}
	logger.GetLogger().Info("Server stopped")
}
