package config

import (
	"strings"
	"time"
)

const defaultBackendTimeout = 10 * time.Second

// BackendConfig configures the REST backend client.
type BackendConfig struct {
	// BaseURL is the backend API root, e.g. "https://api.example.com/api/admin".
	BaseURL string `env:"BACKEND_API_URL,required,notEmpty"`

	// Timeout bounds every backend call.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`

	// AppDomain is the tenant application domain that impersonation links must point at.
	// Empty accepts any https link.
	AppDomain string `env:"APP_DOMAIN"`
}

// Sanitize trims values and restores a positive timeout.
func (c *BackendConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.AppDomain = strings.ToLower(strings.Trim(strings.TrimSpace(c.AppDomain), "."))
	if c.Timeout <= 0 {
		c.Timeout = defaultBackendTimeout
	}
}
