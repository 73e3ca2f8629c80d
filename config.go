package memcadm

import (
	"time"

	"go.uber.org/zap"
)

// DefaultAddr is the conventional local memcached endpoint.
const DefaultAddr = "localhost:11211"

// DefaultTimeout bounds the dial and each read/write when the caller does
// not pick one.
const DefaultTimeout = 3 * time.Second

// Config holds configuration for a DataSource session.
type Config struct {
	// Addr is the server endpoint: "host:port" or a unix socket path.
	// Defaults to DefaultAddr.
	Addr string

	// Timeout applies to the dial and to each subsequent read and write.
	// Zero keeps DefaultTimeout; negative disables timeouts entirely.
	Timeout time.Duration

	// Logger receives session events (reconnects, protocol failures) at
	// debug level. Defaults to a no-op logger. This replaces any notion
	// of a global debug flag: verbosity is a construction-time setting.
	Logger *zap.Logger

	// NewCircuitBreaker, when set, is called once with the server address
	// and the returned breaker guards every dial, including the automatic
	// reconnect. See NewCircuitBreakerConfig.
	NewCircuitBreaker func(serverAddr string) CircuitBreaker

	// for testing purposes only
	dial func() (*Connection, error)
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
