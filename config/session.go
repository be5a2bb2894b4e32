package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StorageMode selects where the session pair is persisted.
type StorageMode string

const (
	// StorageModeFile persists the session in a local JSON file.
	StorageModeFile StorageMode = "file"
	// StorageModeRedis persists the session in Redis.
	StorageModeRedis StorageMode = "redis"
	// StorageModeNone keeps the session in memory only (non-interactive context).
	StorageModeNone StorageMode = "none"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageMode.
func (m *StorageMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "file", "redis", "none":
		*m = StorageMode(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageMode: %q (valid options: file, redis, none)", v)
	}
}

const defaultSessionFileName = "session.json"

// SessionConfig controls session persistence.
type SessionConfig struct {
	Storage StorageMode `env:"SESSION_STORAGE" envDefault:"file"`

	// File is the session file path for StorageModeFile.
	// Defaults to <user config dir>/mmk-backoffice/session.json.
	File string `env:"SESSION_FILE"`

	// RedisPrefix namespaces session keys for StorageModeRedis.
	RedisPrefix string `env:"SESSION_REDIS_PREFIX" envDefault:"backoffice:session:"`
}

// Sanitize fills the default session file path.
func (c *SessionConfig) Sanitize() {
	if c.Storage == "" {
		c.Storage = StorageModeFile
	}
	c.File = strings.TrimSpace(c.File)
	if c.File == "" {
		c.File = DefaultSessionFile()
	}
	if strings.TrimSpace(c.RedisPrefix) == "" {
		c.RedisPrefix = "backoffice:session:"
	}
}

// DefaultSessionFile returns the per-user session file location.
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "mmk-backoffice", defaultSessionFileName)
}
