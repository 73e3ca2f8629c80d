package memcadm

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreaker guards dial attempts. In an interactive session every
// keystroke can trigger the reconnect-on-demand path; a breaker keeps a
// dead server from being hammered while it is down.
type CircuitBreaker interface {
	Execute(func() (*Connection, error)) (*Connection, error)
}

// NewCircuitBreakerConfig returns a factory that creates a dial breaker for
// a server address. This is a helper for common use cases; set
// Config.NewCircuitBreaker to wire it in.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(string) CircuitBreaker {
	return func(serverAddr string) CircuitBreaker {
		settings := gobreaker.Settings{
			Name:        serverAddr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}
		return gobreaker.NewCircuitBreaker[*Connection](settings)
	}
}
