package graph

import (
	"errors"
	"slices"
	"sort"
)

var (
	// ErrInvalidNodeID is returned by [TypedGraph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [TypedGraph.AddNode] when a node with
	// the same ID already exists. Node IDs must be unique per snapshot.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [TypedGraph.AddEdge] when the edge ID is
	// empty or already present.
	ErrInvalidEdgeID = errors.New("edge ID must be non-empty and unique")

	// ErrUnknownSourceNode is returned by [TypedGraph.AddEdge] when the source
	// endpoint does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [TypedGraph.AddEdge] when the target
	// endpoint does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Properties stores arbitrary key-value pairs attached to an element.
// Keys come from the parsed model (priority, category, description, ...).
type Properties map[string]any

// Metrics holds per-node connectivity measures. Metrics are computed wholesale
// by [TypedGraph.ComputeMetrics]; they are never updated incrementally.
type Metrics struct {
	Degree    int `json:"degree" bson:"degree"`         // in + out
	InDegree  int `json:"in_degree" bson:"in_degree"`   // edges targeting the node
	OutDegree int `json:"out_degree" bson:"out_degree"` // edges leaving the node
}

// Node wraps one architecture element. A node is immutable by convention once
// added to a graph snapshot: transforms and filters never modify nodes, they
// build new graph views that share node pointers.
type Node struct {
	ID         string      `json:"id" bson:"id"`
	Type       ElementType `json:"type" bson:"type"`
	Label      string      `json:"label,omitempty" bson:"label,omitempty"`
	Properties Properties  `json:"properties,omitempty" bson:"properties,omitempty"`
	Changeset  ChangesetOp `json:"changeset,omitempty" bson:"changeset,omitempty"`
	Metrics    Metrics     `json:"metrics" bson:"metrics"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Layer returns the architectural layer the node belongs to.
func (n *Node) Layer() Layer { return LayerOf(n.Type) }

// Edge represents a typed, weighted relationship between two nodes.
// Both endpoints must exist in the owning graph when the edge is added.
type Edge struct {
	ID        string       `json:"id" bson:"id"`
	SourceID  string       `json:"source_id" bson:"source_id"`
	TargetID  string       `json:"target_id" bson:"target_id"`
	Type      RelationType `json:"type" bson:"type"`
	Weight    float64      `json:"weight,omitempty" bson:"weight,omitempty"`
	Changeset ChangesetOp  `json:"changeset,omitempty" bson:"changeset,omitempty"`
}

// TypedGraph is the canonical in-memory snapshot of an architecture model.
// Nodes and edges are keyed by ID; insertion order is irrelevant, all ordered
// accessors sort by ID for determinism.
//
// A TypedGraph is built once per load/update cycle and then treated as
// immutable: filter operations return new graphs sharing node and edge
// pointers. TypedGraph is not safe for concurrent mutation.
type TypedGraph struct {
	nodes map[string]*Node
	edges map[string]*Edge
}

// New creates an empty graph.
func New() *TypedGraph {
	return &TypedGraph{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
	}
}

// Build constructs a graph from node and edge slices and computes metrics.
// This is the usual entry point after parsing model data.
func Build(nodes []Node, edges []Edge) (*TypedGraph, error) {
	g := New()
	for i := range nodes {
		if err := g.AddNode(nodes[i]); err != nil {
			return nil, err
		}
	}
	for i := range edges {
		if err := g.AddEdge(edges[i]); err != nil {
			return nil, err
		}
	}
	g.ComputeMetrics()
	return g, nil
}

// AddNode adds a node to the graph. The node is copied; callers keep ownership
// of their argument.
func (g *TypedGraph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[n.ID] = &n
	return nil
}

// AddEdge adds an edge to the graph. Both endpoints must already exist.
func (g *TypedGraph) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if _, exists := g.edges[e.ID]; exists {
		return ErrInvalidEdgeID
	}
	if _, ok := g.nodes[e.SourceID]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.TargetID]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges[e.ID] = &e
	return nil
}

// ComputeMetrics recomputes degree metrics for every node from scratch.
// Called once after construction; filtered views keep the metrics of the
// canonical snapshot they were derived from.
func (g *TypedGraph) ComputeMetrics() {
	for _, n := range g.nodes {
		n.Metrics = Metrics{}
	}
	for _, e := range g.edges {
		if src, ok := g.nodes[e.SourceID]; ok {
			src.Metrics.OutDegree++
			src.Metrics.Degree++
		}
		if dst, ok := g.nodes[e.TargetID]; ok {
			dst.Metrics.InDegree++
			dst.Metrics.Degree++
		}
	}
}

// Initialized reports whether the graph carries node and edge collections.
// A zero-value TypedGraph is not initialized; use New or Build.
func (g *TypedGraph) Initialized() bool {
	return g != nil && g.nodes != nil && g.edges != nil
}

// Node returns the node with the given ID, or nil.
func (g *TypedGraph) Node(id string) *Node { return g.nodes[id] }

// Edge returns the edge with the given ID, or nil.
func (g *TypedGraph) Edge(id string) *Edge { return g.edges[id] }

// HasNode reports whether a node with the given ID exists.
func (g *TypedGraph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *TypedGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *TypedGraph) EdgeCount() int { return len(g.edges) }

// NodeIDs returns all node IDs sorted lexicographically.
func (g *TypedGraph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EdgeIDs returns all edge IDs sorted lexicographically.
func (g *TypedGraph) EdgeIDs() []string {
	ids := make([]string, 0, len(g.edges))
	for id := range g.edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Nodes returns all nodes sorted by ID.
func (g *TypedGraph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.NodeIDs() {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges sorted by ID.
func (g *TypedGraph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, id := range g.EdgeIDs() {
		out = append(out, g.edges[id])
	}
	return out
}

// =============================================================================
// Non-Mutating Graph Views
// =============================================================================

// FilterNodes returns a new graph view containing only nodes for which keep
// returns true, plus the edges whose endpoints both survive. Edges that lose
// an endpoint are dropped silently; that is expected during filtering, not an
// error. The receiver is never modified; node and edge pointers are shared.
func (g *TypedGraph) FilterNodes(keep func(*Node) bool) *TypedGraph {
	out := &TypedGraph{
		nodes: make(map[string]*Node, len(g.nodes)),
		edges: make(map[string]*Edge),
	}
	for id, n := range g.nodes {
		if keep(n) {
			out.nodes[id] = n
		}
	}
	for id, e := range g.edges {
		if _, ok := out.nodes[e.SourceID]; !ok {
			continue
		}
		if _, ok := out.nodes[e.TargetID]; !ok {
			continue
		}
		out.edges[id] = e
	}
	return out
}

// FilterEdges returns a new graph view with all nodes but only edges for
// which keep returns true.
func (g *TypedGraph) FilterEdges(keep func(*Edge) bool) *TypedGraph {
	out := &TypedGraph{
		nodes: make(map[string]*Node, len(g.nodes)),
		edges: make(map[string]*Edge, len(g.edges)),
	}
	for id, n := range g.nodes {
		out.nodes[id] = n
	}
	for id, e := range g.edges {
		if keep(e) {
			out.edges[id] = e
		}
	}
	return out
}

// RestrictToTypes returns a view limited to the given element types.
// A nil or empty type list means no restriction.
func (g *TypedGraph) RestrictToTypes(types []ElementType) *TypedGraph {
	if len(types) == 0 {
		return g
	}
	return g.FilterNodes(func(n *Node) bool {
		return slices.Contains(types, n.Type)
	})
}

// RestrictToRelations returns a view limited to the given relationship types.
// A nil or empty type list means no restriction.
func (g *TypedGraph) RestrictToRelations(types []RelationType) *TypedGraph {
	if len(types) == 0 {
		return g
	}
	return g.FilterEdges(func(e *Edge) bool {
		return slices.Contains(types, e.Type)
	})
}

// Neighbors returns the IDs of nodes directly connected to id (either
// direction), sorted and de-duplicated.
func (g *TypedGraph) Neighbors(id string) []string {
	seen := make(map[string]bool)
	for _, e := range g.edges {
		switch id {
		case e.SourceID:
			seen[e.TargetID] = true
		case e.TargetID:
			seen[e.SourceID] = true
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
