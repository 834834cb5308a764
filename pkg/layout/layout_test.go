package layout

import (
	"fmt"
	"math"
	"testing"

	archerrors "github.com/matzehuels/archlens/pkg/errors"
	"github.com/matzehuels/archlens/pkg/graph"
)

// chainGraph builds a → b → c → d.
func chainGraph(t *testing.T) *graph.TypedGraph {
	t.Helper()
	g, err := graph.Build(
		[]graph.Node{
			{ID: "a", Type: graph.TypeGoal},
			{ID: "b", Type: graph.TypeRequirement},
			{ID: "c", Type: graph.TypeSystem},
			{ID: "d", Type: graph.TypeContainer},
		},
		[]graph.Edge{
			{ID: "e1", SourceID: "a", TargetID: "b", Type: graph.RelRealizes},
			{ID: "e2", SourceID: "b", TargetID: "c", Type: graph.RelRealizes},
			{ID: "e3", SourceID: "c", TargetID: "d", Type: graph.RelServing},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return g
}

func TestRegistry(t *testing.T) {
	reg := Registry()
	for _, kind := range []Kind{KindForce, KindHierarchical, KindRadial, KindManual} {
		algo, ok := reg[kind]
		if !ok {
			t.Fatalf("registry missing %s", kind)
		}
		if algo.Name() != kind {
			t.Errorf("Name() = %s, want %s", algo.Name(), kind)
		}
	}
	if len(reg) != 4 {
		t.Errorf("registry size = %d, want 4", len(reg))
	}
}

func TestForceDirectedPlacesAllNodes(t *testing.T) {
	g := chainGraph(t)

	res, err := ForceDirected().Layout(g, Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	if len(res.NodePositions) != g.NodeCount() {
		t.Fatalf("placed %d nodes, want %d", len(res.NodePositions), g.NodeCount())
	}
	for id, p := range res.NodePositions {
		if p.X < 0 || p.Y < 0 {
			t.Errorf("%s at (%g, %g), want non-negative after normalization", id, p.X, p.Y)
		}
	}
	if res.Bounds.Width <= 0 || res.Bounds.Height <= 0 {
		t.Errorf("bounds = %+v, want positive extent", res.Bounds)
	}
}

func TestForceDirectedDeterministicSeed(t *testing.T) {
	g := chainGraph(t)

	a, err := ForceDirected().Layout(g, Options{Seed: 7})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	b, err := ForceDirected().Layout(g, Options{Seed: 7})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	for id, pa := range a.NodePositions {
		if pb := b.NodePositions[id]; pa != pb {
			t.Errorf("%s: %+v vs %+v with the same seed", id, pa, pb)
		}
	}
}

// ringGraph builds a 24-node cycle, large enough that map iteration order
// would differ between runs if anything in the simulation depended on it.
func ringGraph(t *testing.T) *graph.TypedGraph {
	t.Helper()
	const n = 24
	nodes := make([]graph.Node, n)
	edges := make([]graph.Edge, n)
	for i := 0; i < n; i++ {
		nodes[i] = graph.Node{ID: fmt.Sprintf("n%02d", i), Type: graph.TypeService}
		edges[i] = graph.Edge{
			ID:       fmt.Sprintf("e%02d", i),
			SourceID: fmt.Sprintf("n%02d", i),
			TargetID: fmt.Sprintf("n%02d", (i+1)%n),
			Type:     graph.RelFlow,
		}
	}
	g, err := graph.Build(nodes, edges)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return g
}

func TestForceDirectedDeterministicLargeGraph(t *testing.T) {
	a, err := ForceDirected().Layout(ringGraph(t), Options{Seed: 11})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	b, err := ForceDirected().Layout(ringGraph(t), Options{Seed: 11})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	for id, pa := range a.NodePositions {
		if pb := b.NodePositions[id]; pa != pb {
			t.Errorf("%s: %+v vs %+v with the same seed", id, pa, pb)
		}
	}
}

func TestForceDirectedSpacing(t *testing.T) {
	g := chainGraph(t)

	const spacing = 100.0
	res, err := ForceDirected().Layout(g, Options{Spacing: spacing})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	// Rescaling targets the mean edge length, not each edge individually.
	var total float64
	for _, e := range g.Edges() {
		a := res.NodePositions[e.SourceID]
		b := res.NodePositions[e.TargetID]
		total += math.Hypot(a.X-b.X, a.Y-b.Y)
	}
	mean := total / float64(g.EdgeCount())
	if math.Abs(mean-spacing) > 1e-6 {
		t.Errorf("mean edge length = %g, want %g", mean, spacing)
	}
}

func TestForceDirectedEmptyGraph(t *testing.T) {
	g, _ := graph.Build(nil, nil)
	res, err := ForceDirected().Layout(g, Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if len(res.NodePositions) != 0 {
		t.Errorf("positions = %d, want 0", len(res.NodePositions))
	}
}

func TestHierarchicalRows(t *testing.T) {
	g := chainGraph(t)

	res, err := Hierarchical().Layout(g, Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	// A chain descends one row per hop: strictly increasing Y.
	ya := res.NodePositions["a"].Y
	yb := res.NodePositions["b"].Y
	yc := res.NodePositions["c"].Y
	yd := res.NodePositions["d"].Y
	if !(ya < yb && yb < yc && yc < yd) {
		t.Errorf("rows not descending: a=%g b=%g c=%g d=%g", ya, yb, yc, yd)
	}
	if yb-ya != DefaultRowSpacing {
		t.Errorf("row gap = %g, want %g", yb-ya, DefaultRowSpacing)
	}
}

func TestHierarchicalSiblingsShareRow(t *testing.T) {
	g, err := graph.Build(
		[]graph.Node{
			{ID: "root", Type: graph.TypeGoal},
			{ID: "left", Type: graph.TypeRequirement},
			{ID: "right", Type: graph.TypeRequirement},
		},
		[]graph.Edge{
			{ID: "e1", SourceID: "root", TargetID: "left", Type: graph.RelRealizes},
			{ID: "e2", SourceID: "root", TargetID: "right", Type: graph.RelRealizes},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	res, err := Hierarchical().Layout(g, Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	if res.NodePositions["left"].Y != res.NodePositions["right"].Y {
		t.Error("siblings should share a row")
	}
	if res.NodePositions["left"].X == res.NodePositions["right"].X {
		t.Error("siblings should not overlap horizontally")
	}
}

func TestHierarchicalToleratesCycles(t *testing.T) {
	g, err := graph.Build(
		[]graph.Node{
			{ID: "a", Type: graph.TypeProcess},
			{ID: "b", Type: graph.TypeProcess},
		},
		[]graph.Edge{
			{ID: "e1", SourceID: "a", TargetID: "b", Type: graph.RelFlow},
			{ID: "e2", SourceID: "b", TargetID: "a", Type: graph.RelFlow},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	res, err := Hierarchical().Layout(g, Options{})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if len(res.NodePositions) != 2 {
		t.Errorf("placed %d nodes, want 2 (cycle members keep default row)", len(res.NodePositions))
	}
}

func TestRadialRings(t *testing.T) {
	g := chainGraph(t)

	res, err := Radial().Layout(g, Options{CenterNodeID: "a"})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}
	if len(res.NodePositions) != g.NodeCount() {
		t.Fatalf("placed %d nodes, want %d", len(res.NodePositions), g.NodeCount())
	}

	// BFS depth grows along the chain, so distance from the center does too.
	center := res.NodePositions["a"]
	db := dist(center, res.NodePositions["b"])
	dc := dist(center, res.NodePositions["c"])
	dd := dist(center, res.NodePositions["d"])
	if !(db < dc && dc < dd) {
		t.Errorf("ring radii not increasing: b=%g c=%g d=%g", db, dc, dd)
	}
}

func TestRadialMissingCenter(t *testing.T) {
	g := chainGraph(t)

	_, err := Radial().Layout(g, Options{CenterNodeID: "ghost"})
	if err == nil {
		t.Fatal("expected error for missing center")
	}
	if archerrors.GetCode(err) != archerrors.ErrCodeNodeNotFound {
		t.Errorf("code = %s, want %s", archerrors.GetCode(err), archerrors.ErrCodeNodeNotFound)
	}
}

func TestRadialUnreachableNodes(t *testing.T) {
	g, err := graph.Build(
		[]graph.Node{
			{ID: "hub", Type: graph.TypeStakeholder},
			{ID: "near", Type: graph.TypeGoal},
			{ID: "island", Type: graph.TypeSystem},
		},
		[]graph.Edge{
			{ID: "e1", SourceID: "hub", TargetID: "near", Type: graph.RelInfluence},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	res, err := Radial().Layout(g, Options{CenterNodeID: "hub"})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	// The disconnected node still gets a position, on the outermost ring.
	center := res.NodePositions["hub"]
	if dist(center, res.NodePositions["island"]) <= dist(center, res.NodePositions["near"]) {
		t.Error("unreachable node should land past the deepest reachable ring")
	}
}

func TestManualPinnedOnly(t *testing.T) {
	g := chainGraph(t)

	res, err := Manual().Layout(g, Options{Positions: map[string]Point{
		"a": {X: 10, Y: 20},
		"c": {X: 300, Y: 40},
	}})
	if err != nil {
		t.Fatalf("Layout error: %v", err)
	}

	if len(res.NodePositions) != 2 {
		t.Fatalf("placed %d nodes, want 2 (only pinned)", len(res.NodePositions))
	}
	if got := res.NodePositions["a"]; got != (Point{X: 10, Y: 20}) {
		t.Errorf("a = %+v, want pinned position", got)
	}
	if _, ok := res.NodePositions["b"]; ok {
		t.Error("unpinned node should be absent")
	}
}

func TestManualRequiresPositions(t *testing.T) {
	g := chainGraph(t)

	_, err := Manual().Layout(g, Options{})
	if err == nil {
		t.Fatal("expected error without positions")
	}
	if archerrors.GetCode(err) != archerrors.ErrCodeInvalidOptions {
		t.Errorf("code = %s, want %s", archerrors.GetCode(err), archerrors.ErrCodeInvalidOptions)
	}
}

func dist(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
