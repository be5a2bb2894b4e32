package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/target/mmk-backoffice/config"
	"github.com/target/mmk-backoffice/internal/ports"
)

// shutdownWaitTimeout is the maximum time to wait for the server to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// ConsoleConfig contains everything needed to run the console until shutdown.
type ConsoleConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Storage  ports.SessionStorage
	Logger   *slog.Logger
	// Signals overrides the OS shutdown signals (tests).
	Signals <-chan os.Signal
}

// RunConsoleWithShutdown restores the session, starts the console and blocks
// until a shutdown signal is received or the server fails.
func RunConsoleWithShutdown(ctx context.Context, cfg *ConsoleConfig) error {
	if cfg == nil {
		return errors.New("console config is required")
	}
	if cfg.Config == nil {
		return errors.New("console config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := cfg.Services.Sessions.Restore(ctx); err != nil {
		logger.WarnContext(ctx, "session restore failed", "error", err)
	}

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Storage:  cfg.Storage,
		Logger:   logger,
		Errors:   errCh,
	})
	if err != nil {
		return err
	}

	quit := cfg.Signals
	if quit == nil {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)
		quit = sig
	}

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		quit:       quit,
		errCh:      errCh,
		httpServer: server,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	quit       <-chan os.Signal
	errCh      <-chan error
	httpServer *http.Server
	logger     *slog.Logger
}

// waitForShutdown waits for a shutdown signal, a server error or context cancellation.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down console...")
		return gracefulStop(cfg)
	case <-cfg.ctx.Done():
		cfg.logger.Info("context canceled; shutting down console")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("console error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop stops the HTTP server within shutdownWaitTimeout.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), shutdownWaitTimeout)
	defer cancel()

	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
}
