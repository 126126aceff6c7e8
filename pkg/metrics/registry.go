// Package metrics exposes the RPC runtime's Prometheus collectors: call
// volume and latency for both client and server, fatal frame/codec error
// counts, and bitmask pool occupancy.
//
// Collecting metrics is opt-in: InitRegistry must be called before
// NewRPCMetrics returns a non-nil instance. Every RPCMetrics method is
// nil-safe, so callers can build against a possibly-nil *RPCMetrics without
// branching on whether metrics are enabled.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry creates the process-wide Prometheus registry used by every
// Metrics constructor in this package. Safe to call more than once; each
// call replaces the previous registry.
func InitRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	registry = prometheus.NewRegistry()
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry returns the process-wide registry, or nil if InitRegistry has
// not been called.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// Handler returns the HTTP handler serving the registry in the Prometheus
// exposition format. Panics if the registry has not been initialized.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
