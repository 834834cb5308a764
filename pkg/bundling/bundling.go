// Package bundling implements the edge bundling engine.
//
// Bundling collapses groups of parallel edges into a single visual edge with
// a count badge, keeping dense diagrams readable and interactive. Edges are
// grouped by their unordered layer pair when both endpoints carry a layer
// attribution, falling back to the unordered endpoint pair otherwise. Any
// group reaching the threshold is replaced by one synthetic [Bundle]; groups
// below it pass through untouched.
//
// A bundle is an interactive element: it starts collapsed and toggles to
// expanded on click, revealing exactly the original member edges. The
// Collapsed/Expanded state machine lives on [Bundle].
package bundling

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// MinThreshold is the fixed floor for bundling: groups smaller than 3 are
// never bundled regardless of configuration.
const MinThreshold = 3

// EdgeRef is the minimal view of a renderable edge the engine needs.
type EdgeRef struct {
	ID          string
	SourceID    string
	TargetID    string
	SourceLayer string
	TargetLayer string
}

// Options configures one bundling pass.
type Options struct {
	// Threshold is the minimum group size that triggers bundling.
	// Values below MinThreshold are raised to it.
	Threshold int
}

// Result reports the outcome of a bundling pass.
type Result struct {
	// Bundles holds one entry per group that met the threshold.
	Bundles []*Bundle

	// Passthrough holds the IDs of edges left unbundled, in input order.
	Passthrough []string

	// WasBundled reports whether at least one bundle was created.
	WasBundled bool

	// ReductionCount is the number of visual edges saved:
	// sum over bundles of (member count - 1).
	ReductionCount int
}

// Apply groups the given edges and bundles every group whose cardinality
// reaches the threshold. The input slice is never modified. Bundles are
// ordered by group key and members keep their input order, so output is
// deterministic for a given input.
func Apply(edges []EdgeRef, opts Options) Result {
	threshold := opts.Threshold
	if threshold < MinThreshold {
		threshold = MinThreshold
	}

	groups := make(map[string][]EdgeRef)
	for _, e := range edges {
		key := groupKey(e)
		groups[key] = append(groups[key], e)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var res Result
	bundled := make(map[string]bool)
	for _, key := range keys {
		members := groups[key]
		if len(members) < threshold {
			continue
		}
		res.Bundles = append(res.Bundles, newBundle(key, members))
		res.ReductionCount += len(members) - 1
		for _, m := range members {
			bundled[m.ID] = true
		}
	}
	res.WasBundled = len(res.Bundles) > 0

	res.Passthrough = make([]string, 0, len(edges)-len(bundled))
	for _, e := range edges {
		if !bundled[e.ID] {
			res.Passthrough = append(res.Passthrough, e.ID)
		}
	}

	return res
}

// OptimalThreshold derives a bundling threshold from graph density. Dense
// graphs get a higher threshold so bundling stays meaningful instead of
// collapsing everything, while sparse graphs bundle eagerly at the floor.
//
// The result is always at least MinThreshold and is monotonically
// non-decreasing in edgeCount for a fixed nodeCount.
func OptimalThreshold(nodeCount, edgeCount int) int {
	if nodeCount <= 0 || edgeCount <= 0 {
		return MinThreshold
	}
	// Average degree drives the heuristic: one extra threshold step for
	// every two average incident edges beyond a sparse baseline.
	avgDegree := float64(2*edgeCount) / float64(nodeCount)
	threshold := MinThreshold + int(avgDegree/2)
	if threshold < MinThreshold {
		threshold = MinThreshold
	}
	return threshold
}

// groupKey returns the grouping key for an edge: the unordered layer pair
// when both endpoints carry layers, otherwise the unordered endpoint pair.
func groupKey(e EdgeRef) string {
	if e.SourceLayer != "" && e.TargetLayer != "" {
		a, b := e.SourceLayer, e.TargetLayer
		if a > b {
			a, b = b, a
		}
		return fmt.Sprintf("layer:%s|%s", a, b)
	}
	a, b := e.SourceID, e.TargetID
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("pair:%s|%s", a, b)
}

// newBundle builds a collapsed bundle over the given members.
func newBundle(key string, members []EdgeRef) *Bundle {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return &Bundle{
		ID:       "bundle-" + uuid.NewString(),
		GroupKey: key,
		SourceID: members[0].SourceID,
		TargetID: members[0].TargetID,
		EdgeIDs:  ids,
		state:    StateCollapsed,
	}
}
