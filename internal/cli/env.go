package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/target/mmk-backoffice/config"
	"github.com/target/mmk-backoffice/internal/bootstrap"
	"github.com/target/mmk-backoffice/internal/ports"
)

// SessionExpiredMessage is printed when the backend rejects the stored credential.
const SessionExpiredMessage = "session expired; run `backoffice-admin login`"

// Env is what a command runs against: the wired services plus terminal streams.
type Env struct {
	Services bootstrap.ServiceContainer
	Logger   *slog.Logger
	In       io.Reader
	Out      io.Writer
	Err      io.Writer

	// sessionEnded is set when the backend rejected the stored credential.
	sessionEnded atomic.Bool
	close        func() error
}

// Close releases the session backend and metrics sink.
func (e *Env) Close() error {
	if e == nil {
		return nil
	}
	var errs []error
	if e.close != nil {
		errs = append(errs, e.close())
	}
	errs = append(errs, e.Services.Observability.Close())
	return errors.Join(errs...)
}

// Streams are the terminal streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Loader builds the Env for a command invocation.
type Loader func(ctx context.Context, streams Streams) (*Env, error)

// NewEnv wires services for cfg. Storage may be nil (non-interactive).
// The CLI has no page to move to, so a forced navigation only marks the session as ended.
func NewEnv(cfg *config.AppConfig, storage ports.SessionStorage, streams Streams, logger *slog.Logger) (*Env, error) {
	env := &Env{
		Logger: logger,
		In:     streams.In,
		Out:    streams.Out,
		Err:    streams.Err,
	}
	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:  cfg,
		Storage: storage,
		Navigator: ports.NavigatorFunc(func(context.Context, string) {
			env.sessionEnded.Store(true)
		}),
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	env.Services = services
	return env, nil
}

// SessionEnded reports whether a backend call ended the session.
func (e *Env) SessionEnded() bool { return e.sessionEnded.Load() }

// DefaultLoader loads configuration from the environment, opens the configured
// session storage and restores the persisted session. Logs go to stderr.
func DefaultLoader(ctx context.Context, streams Streams) (*Env, error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, NewExitError(ExitCommandError, err.Error())
	}
	level := cfg.SlogLevel()
	if level == slog.LevelInfo {
		// info logs stay off the terminal unless LOG_LEVEL=debug
		level = slog.LevelWarn
	}
	logger := bootstrap.NewLogger(streams.Err, level)

	backend, err := bootstrap.OpenSessionStorage(ctx, bootstrap.SessionStorageConfig{
		Session: cfg.Session,
		Redis:   cfg.Redis,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	env, err := NewEnv(&cfg, backend.Storage, streams, logger)
	if err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	env.close = backend.Close

	if err := env.Services.Sessions.Restore(ctx); err != nil {
		logger.WarnContext(ctx, "session restore failed", "error", err)
	}
	return env, nil
}
