package bundling

import (
	"testing"
)

// parallelEdges returns n edges between the same endpoints with no layer
// attribution, so they group on the node pair.
func parallelEdges(n int) []EdgeRef {
	edges := make([]EdgeRef, n)
	for i := range edges {
		edges[i] = EdgeRef{
			ID:       string(rune('a'+i)) + "-edge",
			SourceID: "svc-1",
			TargetID: "svc-2",
		}
	}
	return edges
}

func TestApplyBundlesParallelEdges(t *testing.T) {
	edges := parallelEdges(5)

	res := Apply(edges, Options{Threshold: 3})

	if !res.WasBundled {
		t.Fatal("5 parallel edges at threshold 3 should bundle")
	}
	if len(res.Bundles) != 1 {
		t.Fatalf("bundles = %d, want 1", len(res.Bundles))
	}
	if len(res.Passthrough) != 0 {
		t.Errorf("passthrough = %v, want empty", res.Passthrough)
	}

	b := res.Bundles[0]
	if b.Count() != 5 {
		t.Errorf("Count = %d, want 5", b.Count())
	}
	// 5 edges became 1 visual edge, saving 4.
	if res.ReductionCount != 4 {
		t.Errorf("ReductionCount = %d, want 4", res.ReductionCount)
	}

	// Expansion recovers exactly the original members in order.
	got := b.Expand()
	if len(got) != 5 {
		t.Fatalf("Expand returned %d IDs, want 5", len(got))
	}
	for i, e := range edges {
		if got[i] != e.ID {
			t.Errorf("Expand[%d] = %s, want %s", i, got[i], e.ID)
		}
	}
}

func TestApplyBelowThreshold(t *testing.T) {
	edges := parallelEdges(2)

	res := Apply(edges, Options{Threshold: 3})

	if res.WasBundled {
		t.Error("2 edges should never bundle")
	}
	if len(res.Passthrough) != 2 {
		t.Errorf("passthrough = %d, want 2", len(res.Passthrough))
	}
	if res.ReductionCount != 0 {
		t.Errorf("ReductionCount = %d, want 0", res.ReductionCount)
	}
}

func TestThresholdFloor(t *testing.T) {
	// A configured threshold below the floor is raised to it: two parallel
	// edges stay unbundled even at threshold 1.
	res := Apply(parallelEdges(2), Options{Threshold: 1})
	if res.WasBundled {
		t.Error("threshold floor should prevent bundling pairs")
	}

	// Exactly at the floor bundles.
	res = Apply(parallelEdges(3), Options{Threshold: 1})
	if !res.WasBundled {
		t.Error("3 parallel edges should bundle at the floor")
	}
}

func TestLayerGroupingPreferred(t *testing.T) {
	// Different endpoints but the same unordered layer pair: grouped together.
	edges := []EdgeRef{
		{ID: "e1", SourceID: "a", TargetID: "x", SourceLayer: "motivation", TargetLayer: "business"},
		{ID: "e2", SourceID: "b", TargetID: "y", SourceLayer: "business", TargetLayer: "motivation"},
		{ID: "e3", SourceID: "c", TargetID: "z", SourceLayer: "motivation", TargetLayer: "business"},
	}

	res := Apply(edges, Options{Threshold: 3})
	if !res.WasBundled {
		t.Fatal("same layer pair should group regardless of direction")
	}
	if got := res.Bundles[0].GroupKey; got != "layer:business|motivation" {
		t.Errorf("GroupKey = %s, want layer:business|motivation", got)
	}
}

func TestNodePairFallback(t *testing.T) {
	// Missing layer attribution falls back to the unordered endpoint pair.
	edges := []EdgeRef{
		{ID: "e1", SourceID: "a", TargetID: "b"},
		{ID: "e2", SourceID: "b", TargetID: "a"},
		{ID: "e3", SourceID: "a", TargetID: "b"},
	}

	res := Apply(edges, Options{Threshold: 3})
	if !res.WasBundled {
		t.Fatal("unordered endpoint pair should group both directions")
	}
	if got := res.Bundles[0].GroupKey; got != "pair:a|b" {
		t.Errorf("GroupKey = %s, want pair:a|b", got)
	}
}

func TestMixedGroups(t *testing.T) {
	edges := append(parallelEdges(4), EdgeRef{ID: "solo", SourceID: "svc-9", TargetID: "svc-10"})

	res := Apply(edges, Options{Threshold: 3})

	if len(res.Bundles) != 1 {
		t.Fatalf("bundles = %d, want 1", len(res.Bundles))
	}
	if len(res.Passthrough) != 1 || res.Passthrough[0] != "solo" {
		t.Errorf("passthrough = %v, want [solo]", res.Passthrough)
	}
}

func TestApplyDeterministic(t *testing.T) {
	edges := []EdgeRef{
		{ID: "e1", SourceID: "a", TargetID: "b"},
		{ID: "e2", SourceID: "a", TargetID: "b"},
		{ID: "e3", SourceID: "a", TargetID: "b"},
		{ID: "e4", SourceID: "c", TargetID: "d"},
		{ID: "e5", SourceID: "c", TargetID: "d"},
		{ID: "e6", SourceID: "c", TargetID: "d"},
	}

	a := Apply(edges, Options{Threshold: 3})
	b := Apply(edges, Options{Threshold: 3})

	if len(a.Bundles) != len(b.Bundles) {
		t.Fatal("bundle count should be stable")
	}
	for i := range a.Bundles {
		if a.Bundles[i].GroupKey != b.Bundles[i].GroupKey {
			t.Errorf("bundle order differs at %d: %s vs %s", i, a.Bundles[i].GroupKey, b.Bundles[i].GroupKey)
		}
	}
}

func TestOptimalThreshold(t *testing.T) {
	tests := []struct {
		name  string
		nodes int
		edges int
		want  int
	}{
		{"empty graph", 0, 0, MinThreshold},
		{"sparse", 10, 5, MinThreshold},
		{"average degree 2", 10, 10, 4},
		{"dense", 10, 40, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OptimalThreshold(tt.nodes, tt.edges); got != tt.want {
				t.Errorf("OptimalThreshold(%d, %d) = %d, want %d", tt.nodes, tt.edges, got, tt.want)
			}
		})
	}
}

func TestOptimalThresholdMonotone(t *testing.T) {
	// For a fixed node count, more edges can only raise the threshold.
	prev := 0
	for edges := 1; edges <= 200; edges += 10 {
		got := OptimalThreshold(20, edges)
		if got < prev {
			t.Fatalf("threshold decreased from %d to %d at %d edges", prev, got, edges)
		}
		if got < MinThreshold {
			t.Fatalf("threshold %d below floor", got)
		}
		prev = got
	}
}

func TestBundleStateMachine(t *testing.T) {
	b := &Bundle{ID: "bundle-1", EdgeIDs: []string{"e1", "e2", "e3"}}

	if b.State() != StateCollapsed {
		t.Errorf("initial state = %s, want collapsed", b.State())
	}
	if b.IsExpanded() {
		t.Error("new bundle should not be expanded")
	}

	if got := b.Toggle(); got != StateExpanded {
		t.Errorf("Toggle = %s, want expanded", got)
	}
	if got := b.Toggle(); got != StateCollapsed {
		t.Errorf("second Toggle = %s, want collapsed", got)
	}

	ids := b.Expand()
	if !b.IsExpanded() {
		t.Error("Expand should leave the bundle expanded")
	}
	if len(ids) != 3 {
		t.Errorf("Expand returned %d IDs, want 3", len(ids))
	}

	b.Collapse()
	if b.IsExpanded() {
		t.Error("Collapse should leave the bundle collapsed")
	}
}

func TestBundleIDsUnique(t *testing.T) {
	a := Apply(parallelEdges(3), Options{})
	b := Apply(parallelEdges(3), Options{})
	if a.Bundles[0].ID == b.Bundles[0].ID {
		t.Error("bundle IDs should be unique across passes")
	}
}
