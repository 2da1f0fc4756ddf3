package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/flavorforge/backend/config"
	"github.com/flavorforge/backend/internal/api"
	"github.com/flavorforge/backend/internal/database"
	"github.com/flavorforge/backend/internal/logging"
	"github.com/flavorforge/backend/internal/middleware"
	"github.com/flavorforge/backend/internal/router"
	"github.com/flavorforge/backend/internal/server"
	"github.com/flavorforge/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg.DB, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
	}

	embeddingService := service.NewEmbeddingService(cfg.Embedding.CacheSize)
	llmService, err := service.NewLLMService(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to create LLM service", zap.Error(err))
	}
	recipeService := service.NewRecipeService(db, embeddingService, logger)
	inventoryService := service.NewInventoryService(db, recipeService, logger)
	authService := service.NewAuthService(db, cfg.JWT)

	var imageService service.ImageServiceInterface
	if cfg.Images.Enabled {
		s3Config, err := config.NewS3Config(context.Background())
		if err != nil {
			logger.Fatal("failed to configure S3", zap.Error(err))
		}
		if err := s3Config.SetupBucketPolicy(context.Background()); err != nil {
			logger.Warn("failed to apply image bucket policy", zap.Error(err))
		}
		svc, err := service.NewImageService(cfg.Images, s3Config, logger)
		if err != nil {
			logger.Fatal("failed to create image service", zap.Error(err))
		}
		imageService = svc
	}

	var rateLimiter *middleware.RateLimiter
	if redisClient != nil {
		rateLimiter = middleware.NewGenerationRateLimiter(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(llmService, recipeService, imageService, logger)
	inventoryHandler := api.NewInventoryHandler(inventoryService, logger)

	r := router.SetupRouter(authHandler, recipeHandler, inventoryHandler, authService, rateLimiter)
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := server.New(r, addr, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
