package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/mmk-backoffice/config"
	"github.com/target/mmk-backoffice/internal/adapters/filestore"
	redisadapter "github.com/target/mmk-backoffice/internal/adapters/redis"
	"github.com/target/mmk-backoffice/internal/ports"
)

// SessionStorageConfig selects and configures the session persistence backend.
type SessionStorageConfig struct {
	Session config.SessionConfig
	Redis   config.RedisConfig
	Logger  *slog.Logger
	// Connect overrides ConnectRedis (tests).
	Connect func(ctx context.Context, cfg RedisConnectConfig) (redis.UniversalClient, error)
}

// SessionBackend is an opened session storage together with the resources it holds.
type SessionBackend struct {
	// Storage is nil for config.StorageModeNone.
	Storage ports.SessionStorage
	redis   redis.UniversalClient
}

// Close releases the Redis connection, if any.
func (b *SessionBackend) Close() error {
	if b == nil || b.redis == nil {
		return nil
	}
	return b.redis.Close()
}

// OpenSessionStorage opens the configured session storage.
func OpenSessionStorage(ctx context.Context, cfg SessionStorageConfig) (*SessionBackend, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Session.Storage {
	case config.StorageModeNone:
		logger.InfoContext(ctx, "session storage disabled; running non-interactive")
		return &SessionBackend{}, nil

	case config.StorageModeRedis:
		connect := cfg.Connect
		if connect == nil {
			connect = ConnectRedis
		}
		client, err := connect(ctx, RedisConnectConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		storage, err := redisadapter.NewSessionStorage(redisadapter.SessionStorageOptions{
			Client: client,
			Prefix: cfg.Session.RedisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis session storage: %w", err)
		}
		return &SessionBackend{Storage: storage, redis: client}, nil

	case config.StorageModeFile, "":
		path := cfg.Session.File
		if path == "" {
			path = config.DefaultSessionFile()
		}
		store, err := filestore.New(path)
		if err != nil {
			return nil, fmt.Errorf("create session file storage: %w", err)
		}
		logger.DebugContext(ctx, "session file storage", "path", store.Path())
		return &SessionBackend{Storage: store}, nil

	default:
		return nil, fmt.Errorf("unsupported session storage %q", cfg.Session.Storage)
	}
}
