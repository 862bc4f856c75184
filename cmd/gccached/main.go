package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/gccache/internal/api"
	"github.com/mcoot/gccache/internal/config"
	"github.com/mcoot/gccache/internal/factory"
	"github.com/mcoot/gccache/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	level, _ := cfg.Level()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	factoryCfg, err := cfg.Factory(logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load persisted profiles
	if err := app.Store.Load(ctx); err != nil {
		logger.Error("failed to load profiles", slog.String("error", err.Error()))
		_ = app.Close()
		os.Exit(1)
	}

	if cfg.AutoLaunch {
		app.Sessions.LaunchFunc(ctx, func(res session.LaunchResult) {
			if res.Err != nil {
				logger.Warn("auto launch failed, continuing offline", slog.String("error", res.Err.Error()))
			}
		})
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Store:    app.Store,
		Sessions: app.Sessions,
		Catalog:  app.Catalog,
		Events:   app.Events,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)
	server.OnShutdown(app.Events.Close)
	if err := server.Listen(); err != nil {
		logger.Error("failed to bind", slog.String("error", err.Error()))
		_ = app.Close()
		os.Exit(1)
	}

	// Periodic reconciliation with the remote service
	go app.Sessions.RunSync(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("daemon ready", slog.String("url", server.URL()))

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	// Flush the cache and tear down the remote session
	shutdownCtx := context.Background()
	if err := app.Store.SaveAll(shutdownCtx); err != nil {
		logger.Error("failed to save profiles", slog.String("error", err.Error()))
		exitCode = 1
	}
	if err := app.Sessions.Shutdown(shutdownCtx); err != nil {
		logger.Warn("remote session shutdown failed", slog.String("error", err.Error()))
	}
	if err := app.Close(); err != nil {
		logger.Error("failed to close storage", slog.String("error", err.Error()))
		exitCode = 1
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}
