// Package redis provides Redis-based adapters for the back-office client.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "backoffice:session:"

// SessionStorage is a Redis-backed ports.SessionStorage.
// Keys are namespaced with a prefix so several consoles can share one Redis.
type SessionStorage struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// SessionStorageOptions configures a SessionStorage.
type SessionStorageOptions struct {
	Client redis.UniversalClient
	Prefix string
	// TTL expires stored keys; zero keeps them until deleted.
	TTL time.Duration
}

// NewSessionStorage creates a Redis-backed session storage.
func NewSessionStorage(opts SessionStorageOptions) (*SessionStorage, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &SessionStorage{client: opts.Client, prefix: prefix, ttl: opts.TTL}, nil
}

// Get returns the value stored at key. ok is false when the key is absent.
func (s *SessionStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value at key.
func (s *SessionStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys in a single DEL. Missing keys are not an error.
func (s *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.prefix+k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
