// Package cache provides pluggable byte caches for transformed scenes.
//
// The serve path caches whole scene payloads (JSON-encoded transform results)
// keyed by graph hash and transform options, so repeated requests for the
// same view skip the pipeline entirely. This cache is separate from the
// transformer's internal layout cache, which lives in pkg/transform and has
// its own fixed FIFO policy.
//
// Backends:
//   - memory: in-process map, for single-instance serving and tests
//   - file: JSON files under a directory, for CLI usage
//   - redis: shared cache for multi-instance deployments
//   - mongo: collection-backed cache where a document store is already around
//   - null: disabled caching
package cache

import (
	"context"
	"time"
)

// Cache TTLs per payload type.
const (
	TTLScene  = 15 * time.Minute
	TTLLayout = 1 * time.Hour
)

// Cache stores opaque byte payloads with per-entry TTLs.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SceneKeyOpts captures the option fields that affect a scene payload.
type SceneKeyOpts struct {
	Algorithm    string
	ZoomLevel    float64
	Bundling     bool
	ElementTypes []string
	Relations    []string
	CenterNodeID string
}

// Keyer generates cache keys.
type Keyer interface {
	// SceneKey generates a key for a transformed scene payload.
	SceneKey(graphHash string, opts SceneKeyOpts) string

	// LayoutKey generates a key for a serialized layout result.
	LayoutKey(graphHash string, algorithm string) string
}

// DefaultKeyer hashes option structs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// SceneKey generates a key for a transformed scene payload.
func (k *DefaultKeyer) SceneKey(graphHash string, opts SceneKeyOpts) string {
	return hashKey("scene", graphHash, opts)
}

// LayoutKey generates a key for a serialized layout result.
func (k *DefaultKeyer) LayoutKey(graphHash string, algorithm string) string {
	return hashKey("layout", graphHash, algorithm)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating cache namespaces when
// several models share one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SceneKey generates a prefixed scene key.
func (k *ScopedKeyer) SceneKey(graphHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(graphHash, opts)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(graphHash string, algorithm string) string {
	return k.prefix + k.inner.LayoutKey(graphHash, algorithm)
}
