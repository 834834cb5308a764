package layout

import (
	"sort"

	"github.com/matzehuels/archlens/pkg/graph"
)

type hierarchical struct{}

// Hierarchical returns the layered layout strategy. Nodes are assigned to
// rows via a longest-path topological traversal (sources at row 0, every
// node one row below its deepest parent) and spread evenly within each row.
//
// Cycles are tolerated: nodes on a cycle never reach zero in-degree during
// the traversal and keep their default row assignment, so the layout always
// terminates and places every node.
func Hierarchical() Algorithm { return hierarchical{} }

func (hierarchical) Name() Kind { return KindHierarchical }

func (hierarchical) Layout(g *graph.TypedGraph, opts Options) (Result, error) {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return Result{NodePositions: map[string]Point{}}, nil
	}

	rows := assignRows(g)

	// Bucket nodes per row and order each bucket by ID for determinism.
	byRow := make(map[int][]string)
	maxRow := 0
	for _, id := range ids {
		r := rows[id]
		byRow[r] = append(byRow[r], id)
		if r > maxRow {
			maxRow = r
		}
	}
	for r := range byRow {
		sort.Strings(byRow[r])
	}

	spacing := opts.spacing()
	rowSpacing := DefaultRowSpacing

	// Center each row horizontally around the widest row.
	widest := 0
	for _, members := range byRow {
		if len(members) > widest {
			widest = len(members)
		}
	}
	frameWidth := float64(widest-1) * spacing

	positions := make(map[string]Point, len(ids))
	for r := 0; r <= maxRow; r++ {
		members := byRow[r]
		if len(members) == 0 {
			continue
		}
		rowWidth := float64(len(members)-1) * spacing
		offset := (frameWidth - rowWidth) / 2
		for i, id := range members {
			positions[id] = Point{
				X: offset + float64(i)*spacing,
				Y: float64(r) * rowSpacing,
			}
		}
	}

	normalize(positions)
	return Result{
		NodePositions: positions,
		Bounds:        boundsOf(positions),
	}, nil
}

// assignRows computes longest-path row assignments using Kahn's algorithm.
// Each node lands at one plus the maximum row of any of its parents; source
// nodes (no incoming edges) sit at row 0.
func assignRows(g *graph.TypedGraph) map[string]int {
	inDegree := make(map[string]int, g.NodeCount())
	children := make(map[string][]string, g.NodeCount())
	for _, id := range g.NodeIDs() {
		inDegree[id] = 0
	}
	for _, e := range g.Edges() {
		inDegree[e.TargetID]++
		children[e.SourceID] = append(children[e.SourceID], e.TargetID)
	}

	rows := make(map[string]int, g.NodeCount())
	queue := make([]string, 0, g.NodeCount())
	for _, id := range g.NodeIDs() {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range children[curr] {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return rows
}
