package layout

import (
	"math"
	"sort"

	"github.com/matzehuels/archlens/pkg/graph"

	archerrors "github.com/matzehuels/archlens/pkg/errors"
)

type radial struct{}

// Radial returns the radial layout strategy. The center node from
// Options.CenterNodeID sits at the origin; every other node is placed on a
// concentric ring whose radius grows with its breadth-first distance from
// the center. Nodes unreachable from the center land on one extra outermost
// ring.
//
// Radial returns an error when the center node is missing from the graph;
// callers are expected to resolve a valid center first (the transformer
// falls back to the highest-centrality stakeholder).
func Radial() Algorithm { return radial{} }

func (radial) Name() Kind { return KindRadial }

func (radial) Layout(g *graph.TypedGraph, opts Options) (Result, error) {
	if g.NodeCount() == 0 {
		return Result{NodePositions: map[string]Point{}}, nil
	}
	if opts.CenterNodeID == "" || !g.HasNode(opts.CenterNodeID) {
		return Result{}, archerrors.New(archerrors.ErrCodeNodeNotFound, "radial center node %q not in graph", opts.CenterNodeID)
	}

	depths := bfsDepths(g, opts.CenterNodeID)

	// Group nodes by ring. Unreachable nodes go one ring past the deepest
	// reachable one.
	maxDepth := 0
	for _, d := range depths {
		if d > maxDepth {
			maxDepth = d
		}
	}
	outer := maxDepth + 1
	rings := make(map[int][]string)
	for _, id := range g.NodeIDs() {
		if id == opts.CenterNodeID {
			continue
		}
		d, ok := depths[id]
		if !ok {
			d = outer
		}
		rings[d] = append(rings[d], id)
	}

	radiusStep := opts.spacing()
	positions := make(map[string]Point, g.NodeCount())
	positions[opts.CenterNodeID] = Point{X: 0, Y: 0}

	ringNums := make([]int, 0, len(rings))
	for d := range rings {
		ringNums = append(ringNums, d)
	}
	sort.Ints(ringNums)

	for _, d := range ringNums {
		members := rings[d]
		sort.Strings(members)
		radius := float64(d) * radiusStep
		step := 2 * math.Pi / float64(len(members))
		for i, id := range members {
			angle := float64(i) * step
			positions[id] = Point{
				X: radius * math.Cos(angle),
				Y: radius * math.Sin(angle),
			}
		}
	}

	normalize(positions)
	return Result{
		NodePositions: positions,
		Bounds:        boundsOf(positions),
	}, nil
}

// bfsDepths computes undirected breadth-first distances from the start node.
// Nodes not reachable from start are absent from the result.
func bfsDepths(g *graph.TypedGraph, start string) map[string]int {
	depths := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range g.Neighbors(curr) {
			if _, seen := depths[next]; seen {
				continue
			}
			depths[next] = depths[curr] + 1
			queue = append(queue, next)
		}
	}
	return depths
}
