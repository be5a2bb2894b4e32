package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/mmk-backoffice/config"
	"github.com/target/mmk-backoffice/internal/bootstrap"
	httpx "github.com/target/mmk-backoffice/internal/http"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(slog.LevelInfo)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.SlogLevel())

	logStartupInfo(ctx, logger, &cfg)

	backend, err := bootstrap.OpenSessionStorage(ctx, bootstrap.SessionStorageConfig{
		Session: cfg.Session,
		Redis:   cfg.Redis,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close session storage failed", "error", cerr)
		}
	}()

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:    &cfg,
		Storage:   backend.Storage,
		Navigator: httpx.SlotNavigator{Logger: logger},
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Observability.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics sink failed", "error", cerr)
		}
	}()

	return bootstrap.RunConsoleWithShutdown(ctx, &bootstrap.ConsoleConfig{
		Config:   &cfg,
		Services: services,
		Storage:  backend.Storage,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting back-office console",
		"addr", cfg.HTTP.Addr,
		"backend", cfg.Backend.BaseURL,
		"session_storage", cfg.Session.Storage,
		"dev", cfg.IsDev)
}
