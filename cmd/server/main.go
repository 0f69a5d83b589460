package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lirunlin/qianbao/internal/config"
	"github.com/lirunlin/qianbao/internal/model"
	"github.com/lirunlin/qianbao/internal/repository"
	"github.com/lirunlin/qianbao/internal/server"
	"github.com/lirunlin/qianbao/internal/state"
	"github.com/lirunlin/qianbao/pkg/database"
	"github.com/lirunlin/qianbao/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting activity report helper",
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create data directory", zap.Error(err))
		}
	}
	db, err := database.New(database.Config{Path: cfg.Database.Path}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Restore the persisted form state, or start from the template
	store := repository.NewStateRepository(db.DB, logger)
	manager := state.NewManager(store.LoadOrDefault(time.Now()), logger)

	// Persist every change as a full snapshot, fire-and-forget
	manager.Subscribe(func(snapshot *model.ActivityData) {
		go func() {
			if err := store.Save(snapshot); err != nil {
				logger.Warn("Failed to persist form state", zap.Error(err))
			}
		}()
	})

	srv := server.NewServer(cfg.Server, manager, store, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	if cfg.Server.OpenBrowser {
		if err := utils.OpenBrowserWithFallback(srv.URL()); err != nil {
			logger.Warn("Could not open browser",
				zap.String("url", srv.URL()), zap.Error(err))
		}
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	// One final synchronous save so the last edit always survives
	if err := store.Save(manager.Get()); err != nil {
		logger.Error("Final state save failed", zap.Error(err))
	}
}
