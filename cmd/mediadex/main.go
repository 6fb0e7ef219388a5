package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mediadex/internal/api"
	"mediadex/internal/config"
	"mediadex/internal/models"
	"mediadex/internal/scheduler"
	"mediadex/internal/services/appwrite"
	"mediadex/internal/services/tmdb"
	"mediadex/internal/trending"
	"mediadex/internal/users"
	"mediadex/internal/utils"
	"mediadex/internal/watchlist"

	gocache "github.com/patrickmn/go-cache"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting Mediadex")
	logger.WithField("config_dir", filepath.Dir(cfg.CacheFile)).Info("Configuration loaded")

	// 3. Initialize the local cache database
	db, err := models.NewDatabase(cfg.CacheFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize clients
	tmdbClient, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	appwriteClient, err := appwrite.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Appwrite client: %w", err)
	}
	logger.Info("Appwrite client initialized")

	// 5. Initialize services
	watchlistSvc := watchlist.NewService(appwriteClient, db, cfg.WatchlistCollection, logger)
	trendingSvc := trending.NewService(appwriteClient, cfg.SearchesCollectionID, logger)
	usersSvc := users.NewService(appwriteClient, cfg.UsersCollectionID, cfg.StorageBucketID, logger)
	logger.Info("Services initialized")

	// 6. Initialize scheduler
	cache := gocache.New(gocache.NoExpiration, 10*time.Minute)
	sched := scheduler.NewScheduler(tmdbClient, trendingSvc, db, cache, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, api.Deps{
		DB:        db,
		Cache:     cache,
		TMDB:      tmdbClient,
		Appwrite:  appwriteClient,
		Watchlist: watchlistSvc,
		Trending:  trendingSvc,
		Users:     usersSvc,
	}, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Mediadex is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Mediadex stopped")
	return nil
}
