package transform

import (
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/archlens/pkg/graph"
	"github.com/matzehuels/archlens/pkg/layout"
)

// LayoutCacheCapacity is the number of layout results one transformer keeps.
const LayoutCacheCapacity = 10

// FingerprintFunc computes the layout cache key for a graph view. The default
// keys on the algorithm name plus the sorted node and edge ID sets, so any
// structural change invalidates the entry while attribute-only changes do
// not. Callers needing attribute-sensitive invalidation supply their own
// function via [WithFingerprint].
type FingerprintFunc func(kind layout.Kind, g *graph.TypedGraph) string

// StructuralFingerprint is the default cache key: algorithm name, sorted
// node-ID list, and sorted edge-ID list, colon-separated.
func StructuralFingerprint(kind layout.Kind, g *graph.TypedGraph) string {
	return string(kind) + ":" + strings.Join(g.NodeIDs(), ",") + ":" + strings.Join(g.EdgeIDs(), ",")
}

// layoutCache is a fixed-capacity FIFO cache for layout results. Eviction is
// oldest-inserted-first, not least-recently-used: a hit does not refresh an
// entry's position. The mutex makes a transformer safe to share across
// concurrent callers, such as HTTP handlers reusing one instance.
type layoutCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	entries  map[string]layout.Result

	hits   int
	misses int
}

func newLayoutCache(capacity int) *layoutCache {
	return &layoutCache{
		capacity: capacity,
		entries:  make(map[string]layout.Result, capacity),
	}
}

// get returns the cached result for key, counting the lookup.
func (c *layoutCache) get(key string) (layout.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return res, ok
}

// put inserts a result, evicting the oldest entry when at capacity.
// Overwriting an existing key keeps its original insertion position.
func (c *layoutCache) put(key string, res layout.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = res
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, key)
	c.entries[key] = res
}

// clear drops all entries and resets the hit/miss counters.
func (c *layoutCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.entries = make(map[string]layout.Result, c.capacity)
	c.hits = 0
	c.misses = 0
}

// hitRate formats the hit percentage with one decimal, "0.0%" before any
// lookup has happened.
func (c *layoutCache) hitRate() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(c.hits)/float64(total))
}
