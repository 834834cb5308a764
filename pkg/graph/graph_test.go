package graph

import (
	"errors"
	"testing"
)

// buildTestGraph returns a small motivation-layer graph:
//
//	stakeholder-1 → goal-1 ← req-1
//	goal-1 → outcome-1
func buildTestGraph(t *testing.T) *TypedGraph {
	t.Helper()
	g, err := Build(
		[]Node{
			{ID: "stakeholder-1", Type: TypeStakeholder, Label: "CTO"},
			{ID: "goal-1", Type: TypeGoal, Label: "Reduce cost"},
			{ID: "req-1", Type: TypeRequirement},
			{ID: "outcome-1", Type: TypeOutcome},
		},
		[]Edge{
			{ID: "e1", SourceID: "stakeholder-1", TargetID: "goal-1", Type: RelInfluence},
			{ID: "e2", SourceID: "req-1", TargetID: "goal-1", Type: RelRealizes},
			{ID: "e3", SourceID: "goal-1", TargetID: "outcome-1", Type: RelRealizes},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return g
}

func TestBuild(t *testing.T) {
	g := buildTestGraph(t)

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount = %d, want 4", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount = %d, want 3", g.EdgeCount())
	}
	if !g.Initialized() {
		t.Error("built graph should be initialized")
	}
}

func TestBuildComputesMetrics(t *testing.T) {
	g := buildTestGraph(t)

	goal := g.Node("goal-1")
	if goal == nil {
		t.Fatal("goal-1 missing")
	}
	if goal.Metrics.Degree != 3 {
		t.Errorf("goal-1 degree = %d, want 3", goal.Metrics.Degree)
	}
	if goal.Metrics.InDegree != 2 {
		t.Errorf("goal-1 in-degree = %d, want 2", goal.Metrics.InDegree)
	}
	if goal.Metrics.OutDegree != 1 {
		t.Errorf("goal-1 out-degree = %d, want 1", goal.Metrics.OutDegree)
	}
}

func TestAddNodeValidation(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{Type: TypeGoal}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: got %v, want ErrInvalidNodeID", err)
	}

	if err := g.AddNode(Node{ID: "a", Type: TypeGoal}); err != nil {
		t.Fatalf("AddNode error: %v", err)
	}
	if err := g.AddNode(Node{ID: "a", Type: TypeDriver}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate ID: got %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddEdgeValidation(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Type: TypeGoal})
	_ = g.AddNode(Node{ID: "b", Type: TypeRequirement})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"empty ID", Edge{SourceID: "a", TargetID: "b"}, ErrInvalidEdgeID},
		{"unknown source", Edge{ID: "e1", SourceID: "missing", TargetID: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{ID: "e1", SourceID: "a", TargetID: "missing"}, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if err := g.AddEdge(Edge{ID: "e1", SourceID: "a", TargetID: "b", Type: RelRealizes}); err != nil {
		t.Fatalf("valid edge: %v", err)
	}
	if err := g.AddEdge(Edge{ID: "e1", SourceID: "b", TargetID: "a"}); !errors.Is(err, ErrInvalidEdgeID) {
		t.Errorf("duplicate edge ID: got %v, want ErrInvalidEdgeID", err)
	}
}

func TestZeroValueNotInitialized(t *testing.T) {
	var g *TypedGraph
	if g.Initialized() {
		t.Error("nil graph should not be initialized")
	}
	var zero TypedGraph
	if zero.Initialized() {
		t.Error("zero-value graph should not be initialized")
	}
}

func TestFilterNodesDropsDanglingEdges(t *testing.T) {
	g := buildTestGraph(t)

	// Keep everything except goal-1; all three edges touch it.
	view := g.FilterNodes(func(n *Node) bool { return n.ID != "goal-1" })

	if view.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", view.NodeCount())
	}
	if view.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0 (all edges touched goal-1)", view.EdgeCount())
	}

	// The original graph is untouched.
	if g.NodeCount() != 4 || g.EdgeCount() != 3 {
		t.Error("FilterNodes must not modify the receiver")
	}
}

func TestRestrictToTypes(t *testing.T) {
	g := buildTestGraph(t)

	view := g.RestrictToTypes([]ElementType{TypeStakeholder, TypeGoal})
	if view.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", view.NodeCount())
	}
	if view.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1 (stakeholder→goal survives)", view.EdgeCount())
	}

	// Empty restriction means no filter and returns the same view.
	if got := g.RestrictToTypes(nil); got.NodeCount() != g.NodeCount() {
		t.Error("nil restriction should keep all nodes")
	}
}

func TestRestrictToRelations(t *testing.T) {
	g := buildTestGraph(t)

	view := g.RestrictToRelations([]RelationType{RelInfluence})
	if view.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", view.EdgeCount())
	}
	// Node set is untouched by relation filtering.
	if view.NodeCount() != g.NodeCount() {
		t.Errorf("NodeCount = %d, want %d", view.NodeCount(), g.NodeCount())
	}
}

func TestSortedAccessors(t *testing.T) {
	g := buildTestGraph(t)

	ids := g.NodeIDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("NodeIDs not sorted: %v", ids)
		}
	}

	nodes := g.Nodes()
	if len(nodes) != len(ids) {
		t.Fatalf("Nodes length = %d, want %d", len(nodes), len(ids))
	}
	for i, n := range nodes {
		if n.ID != ids[i] {
			t.Errorf("Nodes[%d].ID = %s, want %s", i, n.ID, ids[i])
		}
	}
}

func TestNeighbors(t *testing.T) {
	g := buildTestGraph(t)

	got := g.Neighbors("goal-1")
	want := []string{"outcome-1", "req-1", "stakeholder-1"}
	if len(got) != len(want) {
		t.Fatalf("Neighbors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if n := g.Neighbors("isolated"); len(n) != 0 {
		t.Errorf("Neighbors of unknown node = %v, want empty", n)
	}
}

func TestDisplayLabel(t *testing.T) {
	labeled := Node{ID: "n1", Label: "Billing"}
	if labeled.DisplayLabel() != "Billing" {
		t.Errorf("DisplayLabel = %s, want Billing", labeled.DisplayLabel())
	}
	bare := Node{ID: "n2"}
	if bare.DisplayLabel() != "n2" {
		t.Errorf("DisplayLabel = %s, want n2", bare.DisplayLabel())
	}
}
