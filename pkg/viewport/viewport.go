// Package viewport implements viewport culling for rendered scenes.
//
// Culling keeps only the nodes and edges that intersect the current viewport
// plus a margin, so the rendering layer draws a bounded number of elements
// regardless of graph size. The margin avoids visible pop-in at the borders
// during panning. Culling is recomputed on every pan or zoom; it consumes the
// transformer's output and never feeds back into it.
package viewport

import (
	"github.com/matzehuels/archlens/pkg/transform"
)

// DefaultMargin is the extra border, in diagram units, kept around the
// visible rectangle.
const DefaultMargin = 200.0

// Rect is an axis-aligned rectangle in diagram coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// expand grows the rectangle by m on every side.
func (r Rect) expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// intersects reports whether two rectangles overlap.
func (r Rect) intersects(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Cull filters a scene to the elements visible in view plus margin. A margin
// of zero or less selects DefaultMargin. Nodes are kept when their box
// intersects the expanded view; an edge is kept when either endpoint node is
// kept or its segment crosses the expanded view. Bounds pass through
// unchanged so scrollbars keep their extent.
func Cull(res *transform.Result, view Rect, margin float64) *transform.Result {
	if margin <= 0 {
		margin = DefaultMargin
	}
	expanded := view.expand(margin)

	kept := make(map[string]bool, len(res.Nodes))
	centers := make(map[string][2]float64, len(res.Nodes))
	nodes := make([]transform.RenderNode, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		centers[n.ID] = [2]float64{n.X + n.Width/2, n.Y + n.Height/2}
		box := Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
		if expanded.intersects(box) {
			kept[n.ID] = true
			nodes = append(nodes, n)
		}
	}

	edges := make([]transform.RenderEdge, 0, len(res.Edges))
	for _, e := range res.Edges {
		if kept[e.SourceID] || kept[e.TargetID] {
			edges = append(edges, e)
			continue
		}
		a, aok := centers[e.SourceID]
		b, bok := centers[e.TargetID]
		if aok && bok && segmentCrosses(expanded, a, b) {
			edges = append(edges, e)
		}
	}

	return &transform.Result{
		Nodes:  nodes,
		Edges:  edges,
		Bounds: res.Bounds,
	}
}

// segmentCrosses reports whether the segment a-b passes through the
// rectangle even though both endpoints lie outside it. Sampling the segment
// is sufficient here: node boxes are large relative to the margin, so a
// coarse parametric walk cannot skip over the expanded viewport.
func segmentCrosses(r Rect, a, b [2]float64) bool {
	const samples = 16
	for i := 1; i < samples; i++ {
		t := float64(i) / samples
		x := a[0] + t*(b[0]-a[0])
		y := a[1] + t*(b[1]-a[1])
		if r.contains(x, y) {
			return true
		}
	}
	return false
}
