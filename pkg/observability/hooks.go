// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends to the library packages. Consumers register
// hooks at startup to receive events about engine handles, partition calls,
// cache operations, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [PrometheusHooks] implements every interface on top of the Prometheus
// client; `hyperpart serve` installs it and exposes /metrics.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    hooks := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
//	    observability.SetPartitionHooks(hooks)
//	    observability.SetCacheHooks(hooks)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Partition().OnPartitionStart(ctx, "builtin", k, epsilon)
//	// ... partition ...
//	observability.Partition().OnPartitionComplete(ctx, "builtin", k, objective, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Partition Hooks
// =============================================================================

// PartitionHooks receives events from engine handles and partition calls.
type PartitionHooks interface {
	// Handle lifecycle. leaked is true when a handle was released by its
	// finalizer instead of Close.
	OnContextCreate(ctx context.Context, engine string)
	OnContextRelease(ctx context.Context, engine string, leaked bool)
	OnHypergraphCreate(ctx context.Context, engine string, vertices, hyperedges, pins int)
	OnHypergraphRelease(ctx context.Context, engine string, leaked bool)

	// Partition calls
	OnPartitionStart(ctx context.Context, engine string, k int, epsilon float64)
	OnPartitionComplete(ctx context.Context, engine string, k int, objective int64, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the partition API server. route is the
// matched route pattern, not the raw path.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error (decode failure,
	// engine failure, cancellation).
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPartitionHooks is a no-op implementation of PartitionHooks.
type NoopPartitionHooks struct{}

func (NoopPartitionHooks) OnContextCreate(context.Context, string)                   {}
func (NoopPartitionHooks) OnContextRelease(context.Context, string, bool)            {}
func (NoopPartitionHooks) OnHypergraphCreate(context.Context, string, int, int, int) {}
func (NoopPartitionHooks) OnHypergraphRelease(context.Context, string, bool)         {}
func (NoopPartitionHooks) OnPartitionStart(context.Context, string, int, float64)    {}
func (NoopPartitionHooks) OnPartitionComplete(context.Context, string, int, int64, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	partitionHooks PartitionHooks = NoopPartitionHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetPartitionHooks registers custom partition hooks.
// This should be called once at application startup before any handle is created.
func SetPartitionHooks(h PartitionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		partitionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Partition returns the registered partition hooks.
func Partition() PartitionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return partitionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	partitionHooks = NoopPartitionHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
