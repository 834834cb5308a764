// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about transform execution and cache
// operations; libraries call the registered hooks to emit events.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces per event category
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import cycles
// and keeps the core free of observability frameworks.
//
// # Usage
//
//	func main() {
//	    observability.SetTransformHooks(&myTransformHooks{})
//	    // ... run application
//	}
//
//	observability.Transform().OnTransformStart(ctx, nodeCount, edgeCount)
//	// ... run pipeline ...
//	observability.Transform().OnTransformComplete(ctx, renderedNodes, renderedEdges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// TransformHooks receives events from the transformation pipeline.
type TransformHooks interface {
	// OnTransformStart records the beginning of a transform over a snapshot
	// of the given size.
	OnTransformStart(ctx context.Context, nodeCount, edgeCount int)

	// OnTransformComplete records a finished transform with its output size.
	OnTransformComplete(ctx context.Context, renderedNodes, renderedEdges int, duration time.Duration, err error)

	// OnLayoutComputed records a layout invocation that missed the cache.
	OnLayoutComputed(ctx context.Context, algorithm string, nodeCount int, duration time.Duration)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopTransformHooks is a no-op implementation of TransformHooks.
type NoopTransformHooks struct{}

func (NoopTransformHooks) OnTransformStart(context.Context, int, int) {}
func (NoopTransformHooks) OnTransformComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopTransformHooks) OnLayoutComputed(context.Context, string, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	transformHooks TransformHooks = NoopTransformHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetTransformHooks registers custom transform hooks.
// Call once at application startup before any transforms run.
func SetTransformHooks(h TransformHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transformHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// Call once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Transform returns the registered transform hooks.
func Transform() TransformHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transformHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	transformHooks = NoopTransformHooks{}
	cacheHooks = NoopCacheHooks{}
}
