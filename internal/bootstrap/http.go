package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/mmk-backoffice/config"
	httpx "github.com/target/mmk-backoffice/internal/http"
	"github.com/target/mmk-backoffice/internal/ports"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	// Storage is probed by /readyz when set.
	Storage ports.SessionStorage
	Logger  *slog.Logger
	// Errors receives the listener error if the server stops unexpectedly.
	Errors chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler, err := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: cfg.Services,
		Storage:  cfg.Storage,
		Config:   appCfg,
	})
	if err != nil {
		return nil, err
	}

	return startServer(logger, handler, appCfg.HTTP.Addr, cfg.Errors), nil
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services ServiceContainer
	Storage  ports.SessionStorage
	Config   *config.AppConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) (http.Handler, error) {
	var compression *httpx.CompressionConfig
	if cfg.Config.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.Config.HTTP.CompressionLevel)
		compression = &httpx.CompressionConfig{Level: cfg.Config.HTTP.CompressionLevel, Logger: cfg.Logger}
	}

	svc := cfg.Services
	handler, err := httpx.NewRouter(httpx.RouterServices{
		Session:       svc.Sessions,
		Storage:       cfg.Storage,
		Auth:          svc.Auth,
		Dashboard:     svc.Dashboard,
		Organizations: svc.Organizations,
		Users:         svc.Users,
		Admins:        svc.Admins,
		Settings:      svc.Settings,
		AuditLog:      svc.AuditLog,
		Metrics:       svc.Observability.MetricsHandler,
		Compression:   compression,
		CookieSecure:  cfg.Config.HTTP.CookieSecure,
		IsDev:         cfg.Config.IsDev,
		Logger:        cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	return handler, nil
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on all interfaces
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				select {
				case errCh <- fmt.Errorf("http server: %w", err):
				default:
				}
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
