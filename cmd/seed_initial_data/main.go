// Command seed_initial_data ensures the default accounts and runs one seed
// pass without starting the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"sound-byte/internal/app"
	"sound-byte/internal/config"
	"sound-byte/internal/logger"

	"go.uber.org/zap"
)

func main() {
	folder := flag.String("folder", "", "seed folder; overrides seed.folder")
	format := flag.String("format", "", "seed file format (csv, tsv, xlsx); overrides seed.format")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		// If logger is not initialized yet, use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *folder != "" {
		cfg.Seed.Folder = *folder
	}
	if *format != "" {
		cfg.Seed.Format = *format
	}
	// running this command is the request to seed
	cfg.Seed.Enabled = true

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() // Ensure logs are flushed
	log := logger.Get()

	log.Info("Starting initial data seeding process...")

	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer storage.Close()

	redisClient, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	orchestrator, err := app.NewOrchestrator(cfg, storage, app.NewSeedLock(redisClient, cfg, log), log)
	if err != nil {
		log.Fatal("Failed to create seed orchestrator", zap.Error(err))
	}

	res, err := orchestrator.OnApplicationReady(ctx)
	if err != nil {
		log.Fatal("Initial data seeding failed", zap.Error(err))
	}
	log.Info("Initial data seeding finished",
		zap.String("state", string(res.State)),
		zap.String("reason", res.Reason),
		zap.String("source", res.Source),
	)
}
