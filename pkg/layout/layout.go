// Package layout provides pluggable 2D layout algorithms for typed graphs.
//
// A layout algorithm is a pure function mapping a graph snapshot to node
// center positions plus overall bounds. Four interchangeable strategies are
// provided:
//
//   - [ForceDirected]: force simulation (Eades spring model via gonum)
//   - [Hierarchical]: longest-path layering with row-based placement
//   - [Radial]: concentric rings by breadth-first depth from a center node
//   - [Manual]: caller-pinned positions
//
// Algorithms never mutate the graph and hold no state between invocations;
// results are cached by the transformer, not here.
package layout

import (
	"github.com/matzehuels/archlens/pkg/graph"
)

// Kind names a layout strategy.
type Kind string

// Layout strategies.
const (
	KindForce        Kind = "force"
	KindHierarchical Kind = "hierarchical"
	KindRadial       Kind = "radial"
	KindManual       Kind = "manual"
)

// ValidKinds is the set of recognized layout strategies.
var ValidKinds = map[Kind]bool{
	KindForce:        true,
	KindHierarchical: true,
	KindRadial:       true,
	KindManual:       true,
}

// Point is a node center position in diagram coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Bounds is the overall extent of a computed layout.
type Bounds struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Result holds the output of one layout invocation: center positions keyed by
// node ID plus the overall bounds. A Result is produced fresh per invocation
// and never shared between algorithms.
type Result struct {
	NodePositions map[string]Point `json:"node_positions" bson:"node_positions"`
	Bounds        Bounds           `json:"bounds" bson:"bounds"`
}

// Default spacing constants, in diagram units.
const (
	DefaultSpacing    = 240.0
	DefaultRowSpacing = 160.0
	defaultPadding    = 140.0
)

// Options configures a layout invocation. Zero values select sensible
// defaults; algorithm-specific fields are ignored by other algorithms.
type Options struct {
	// Spacing is the target distance between neighboring node centers.
	Spacing float64

	// Iterations bounds the simulation steps for force-directed layout.
	Iterations int

	// Seed makes force-directed placement reproducible.
	Seed uint64

	// CenterNodeID selects the hub for radial layout.
	CenterNodeID string

	// Positions supplies pinned centers for manual layout.
	Positions map[string]Point
}

// spacing returns the configured spacing or the default.
func (o Options) spacing() float64 {
	if o.Spacing > 0 {
		return o.Spacing
	}
	return DefaultSpacing
}

// Algorithm computes node positions for a graph snapshot.
// Implementations must be pure: no retained state, no graph mutation.
type Algorithm interface {
	// Name returns the strategy identifier used in cache keys.
	Name() Kind

	// Layout computes center positions and bounds for every node it can
	// place. Nodes an algorithm cannot place may be absent from the result;
	// the caller decides how to handle them.
	Layout(g *graph.TypedGraph, opts Options) (Result, error)
}

// Registry returns the full set of built-in algorithms keyed by Kind.
func Registry() map[Kind]Algorithm {
	return map[Kind]Algorithm{
		KindForce:        ForceDirected(),
		KindHierarchical: Hierarchical(),
		KindRadial:       Radial(),
		KindManual:       Manual(),
	}
}

// boundsOf computes the bounding box of a position set, padded so nodes near
// the border have room for their own extent.
func boundsOf(positions map[string]Point) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	first := true
	var minX, minY, maxX, maxY float64
	for _, p := range positions {
		if first {
			minX, maxX = p.X, p.X
			minY, maxY = p.Y, p.Y
			first = false
			continue
		}
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return Bounds{
		Width:  maxX - minX + 2*defaultPadding,
		Height: maxY - minY + 2*defaultPadding,
	}
}

// normalize shifts all positions so the minimum lands at (padding, padding).
// Keeps coordinates positive for viewport math without changing geometry.
func normalize(positions map[string]Point) {
	if len(positions) == 0 {
		return
	}
	first := true
	var minX, minY float64
	for _, p := range positions {
		if first {
			minX, minY = p.X, p.Y
			first = false
			continue
		}
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
	}
	for id, p := range positions {
		positions[id] = Point{X: p.X - minX + defaultPadding, Y: p.Y - minY + defaultPadding}
	}
}
