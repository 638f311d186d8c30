// @title Sound Byte API
// @version 1.0
// @description Study-history and seed-status API for the speech-therapy exercise graph.
// @host localhost:8090
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"sound-byte/internal/adapter"
	"sound-byte/internal/app"
	"sound-byte/internal/config"
	"sound-byte/internal/domain"
	"sound-byte/internal/handler"
	"sound-byte/internal/logger"
	"sound-byte/internal/middleware"
	"sound-byte/internal/seed"
	"sound-byte/internal/service"
	"sound-byte/internal/util"

	_ "sound-byte/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to open storage", zap.String("storage", cfg.Storage), zap.Error(err))
	}
	defer storage.Close()
	appLogger.Info("Storage ready", zap.String("storage", storage.Backend))

	redisClient, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	var cacheAdapter domain.Cache
	if redisClient != nil {
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("RedisCacheAdapter initialized")
	}

	orchestrator, err := app.NewOrchestrator(cfg, storage, app.NewSeedLock(redisClient, cfg, appLogger), appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create seed orchestrator", zap.Error(err))
	}

	// Initialize services and handlers
	studyHistoryService := service.NewStudyHistoryService(storage.Tx, storage.Sink.Exercises, storage.StudyHistories)
	seedStatusService := service.NewSeedStatusService(orchestrator, cacheAdapter, util.NewULID(), cfg.Seed.StatusCacheTTL)

	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})
	fiberApp.Use(recover.New())
	fiberApp.Use(middleware.RequestLogger())
	fiberApp.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,PATCH,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))

	fiberApp.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(fiberApp, handler.Handlers{
		StudyHistory: handler.NewStudyHistoryHandler(studyHistoryService),
		Seed:         handler.NewSeedHandler(seedStatusService),
		Health:       handler.NewHealthHandler(storage.Backend, storage.Ping, cacheAdapter),
	})

	g, gctx := errgroup.WithContext(ctx)
	seedErr := make(chan error, 1)

	// The listener being up is the application-ready signal.
	trigger := seed.NewTrigger(func(ctx context.Context) error {
		_, err := orchestrator.OnApplicationReady(ctx)
		return err
	})
	fiberApp.Hooks().OnListen(func(fiber.ListenData) error {
		go func() {
			seedErr <- trigger.Fire(context.WithoutCancel(gctx))
		}()
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		return fiberApp.Listen(":" + strconv.Itoa(cfg.Server.Port))
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case err := <-seedErr:
			if err == nil {
				return nil
			}
			if seed.IsFatal(err) {
				return err
			}
			appLogger.Error("Initial data seeding failed; serving without it", zap.Error(err))
			<-gctx.Done()
			return nil
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return fiberApp.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Fatal("Server stopped with error", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
