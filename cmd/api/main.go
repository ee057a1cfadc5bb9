package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/analytics"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/api"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/config"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/marker"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/platform"
	"github.com/saturnino-fabrica-de-software/popupkit/internal/settings"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Popupkit API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Settings manager: bounded wait for the first snapshot, then watch the
	// file for edits from the theme configurator.
	manager := settings.NewManager(cfg.SettingsPath, logger)
	if _, err := manager.WaitReady(ctx, settings.DefaultPollInterval, settings.DefaultMaxAttempts); err != nil {
		return fmt.Errorf("settings not available: %w", err)
	}
	go func() {
		if err := manager.Watch(ctx); err != nil {
			logger.Error("settings watch failed", slog.Any("error", err))
		}
	}()

	// Visitor markers, with a nightly sweep of expired entries
	markers := marker.NewStore()
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@hourly", func() {
		if deleted := markers.DeleteExpired(); deleted > 0 {
			logger.Info("expired markers removed", slog.Int("count", deleted))
		}
	}); err != nil {
		return fmt.Errorf("schedule marker sweep: %w", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Platform client and analytics emitter
	platformClient := platform.NewClient(platform.Config{
		BaseURL:        cfg.PlatformBaseURL,
		AccountPath:    cfg.AccountPath,
		NewsletterPath: cfg.NewsletterPath,
	})
	emitter := analytics.NewEmitter(cfg.AnalyticsURL, cfg.AnalyticsSecret, logger)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		SettingsManager: manager,
		Markers:         markers,
		Platform:        platformClient,
		Analytics:       emitter,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
