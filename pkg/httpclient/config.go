package httpclient

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds configuration for creating HTTP clients.
type Config struct {
	// Timeout is the total request timeout including connection, headers
	// and body. Default: 30s. Must be > 0.
	Timeout time.Duration

	// UserAgent is the User-Agent header value set on requests that carry
	// none. Required. Must be non-empty.
	UserAgent string

	// MaxIdleConnsPerHost bounds idle keep-alive connections per host.
	// Default: 10. Must be >= 0.
	MaxIdleConnsPerHost int

	// Logger receives request logs. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:             30 * time.Second,
		UserAgent:           "genaws",
		MaxIdleConnsPerHost: 10,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}

	if c.MaxIdleConnsPerHost < 0 {
		return fmt.Errorf("max_idle_conns_per_host must be >= 0, got %d", c.MaxIdleConnsPerHost)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required and must be non-empty")
	}

	return nil
}
