package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/opengrove/feedbridge/internal/config"
	"github.com/opengrove/feedbridge/internal/domain"
	"github.com/opengrove/feedbridge/internal/feed"
	"github.com/opengrove/feedbridge/internal/httpserver"
	"github.com/opengrove/feedbridge/internal/jira"
	"github.com/opengrove/feedbridge/internal/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.NewViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))

	// A missing provider is the one non-retriable failure: refuse to start
	// rather than consume stories we can never publish.
	if !cfg.Provider.Configured() {
		return domain.ErrNoProviderConfigured
	}
	if cfg.FeedURL == "" {
		return fmt.Errorf("feed.url is required")
	}

	repo, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer repo.Close()
	logger.Info("connected to database", "path", cfg.DatabasePath)

	tracker := jira.NewClient(cfg.Provider.BaseURL)
	service := domain.NewPublishService(
		cfg.Provider,
		cfg.Actions,
		repo, repo, repo,
		tracker,
		logger,
	)

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start the story feed subscriber in the background
	subscriber := feed.NewSubscriber(cfg.FeedURL, service, repo, logger)
	subErr := make(chan error, 1)
	go func() {
		if err := subscriber.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("feed subscriber exited with error", "error", err)
			subErr <- err
		}
	}()

	// Start the operational HTTP server
	server := httpserver.NewServer(cfg.HTTPPort, service.Stats(), logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server exited with error", "error", err)
		}
	}()

	logger.Info("server started",
		"port", cfg.HTTPPort,
		"provider", cfg.Provider.Type,
		"post_comment", cfg.Actions.PostComment,
		"post_link", cfg.Actions.PostLink,
	)

	// Wait for shutdown signal or a fatal subscriber error
	var runErr error
	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig)
	case runErr = <-subErr:
	}
	cancel()

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error("error shutting down http server", "error", err)
	}

	return runErr
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
