// Package transform implements the graph transformation pipeline, the core of
// the architecture viewer.
//
// A [Transformer] takes a typed graph snapshot and a set of options and
// produces a renderable scene: positioned nodes, styled edges, and overall
// bounds. The pipeline runs in a fixed order:
//
//  1. Semantic zoom filtering (element types visible at the zoom level)
//  2. User filtering (selected element and relationship types)
//  3. Layout, with FIFO-cached results keyed on a structural fingerprint
//  4. Detail-level resolution
//  5. Node materialization (center → top-left, styling, badges, coverage)
//  6. Edge materialization (labels, highlight/dim styling)
//  7. Edge bundling (optional)
//
// # Failure semantics
//
// The transform degrades instead of failing: nodes without a computed
// position are skipped with a diagnostic, unmet layout preconditions fall
// back to force-directed, and edges that lose an endpoint to filtering are
// dropped silently. The only hard error is an uninitialized graph.
//
// # Concurrency
//
// A Transformer is safe for concurrent use: transforms hold no shared
// mutable state beyond the layout cache, which synchronizes internally.
// Concurrent misses on the same fingerprint may compute the layout more
// than once; both arrive at the same result.
package transform

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archlens/pkg/bundling"
	"github.com/matzehuels/archlens/pkg/coverage"
	archerrors "github.com/matzehuels/archlens/pkg/errors"
	"github.com/matzehuels/archlens/pkg/graph"
	"github.com/matzehuels/archlens/pkg/layout"
	"github.com/matzehuels/archlens/pkg/observability"
	"github.com/matzehuels/archlens/pkg/zoom"
)

// Transformer orchestrates the transformation pipeline. Construct with [New];
// the zero value is not usable.
type Transformer struct {
	algorithms  map[layout.Kind]layout.Algorithm
	cache       *layoutCache
	fingerprint FingerprintFunc
	logger      *log.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the transformer's diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(t *Transformer) { t.logger = l }
}

// WithFingerprint replaces the structural cache fingerprint, for callers that
// need attribute-level cache invalidation.
func WithFingerprint(f FingerprintFunc) Option {
	return func(t *Transformer) { t.fingerprint = f }
}

// WithAlgorithm registers or replaces a layout algorithm.
func WithAlgorithm(a layout.Algorithm) Option {
	return func(t *Transformer) { t.algorithms[a.Name()] = a }
}

// New creates a transformer with the built-in layout algorithms, the
// structural fingerprint, and a discarding logger.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		algorithms:  layout.Registry(),
		cache:       newLayoutCache(LayoutCacheCapacity),
		fingerprint: StructuralFingerprint,
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CacheHitRate returns the layout cache hit percentage with one decimal,
// e.g. "66.7%".
func (t *Transformer) CacheHitRate() string { return t.cache.hitRate() }

// ClearLayoutCache drops all cached layouts and resets the hit/miss counters.
func (t *Transformer) ClearLayoutCache() { t.cache.clear() }

// Transform runs the full pipeline and returns the renderable scene.
// The input graph is never mutated. Transform only fails on an uninitialized
// graph; every other degraded condition resolves to a documented fallback.
func (t *Transformer) Transform(g *graph.TypedGraph, opts Options) (*Result, error) {
	if !g.Initialized() {
		return nil, archerrors.New(archerrors.ErrCodeInvalidGraph, "graph is missing node/edge collections")
	}
	opts.ValidateAndSetDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = t.logger
	}

	// Stage 1+2: semantic zoom, then user filters. Each step produces a new
	// view; edges losing an endpoint are dropped by the view itself.
	filtered := g.FilterNodes(func(n *graph.Node) bool { return zoom.TypeVisible(n.Type, opts.ZoomLevel) })
	filtered = filtered.RestrictToTypes(opts.ElementTypes)
	filtered = filtered.RestrictToRelations(opts.RelationTypes)

	// Stage 3: layout with caching.
	kind, layoutOpts := t.resolveLayout(filtered, opts, logger)
	layoutResult := t.cachedLayout(kind, filtered, layoutOpts, logger)

	// Stage 4: detail resolution.
	detail := zoom.NodeDetailLevel(opts.ZoomLevel)
	showLabels := zoom.ShowEdgeLabels(opts.ZoomLevel)

	// Stage 5: node materialization.
	nodes, rendered := t.materializeNodes(filtered, layoutResult, detail, opts, logger)

	// Stage 6: edge materialization.
	edges := t.materializeEdges(filtered, rendered, showLabels, opts)

	// Stage 7: bundling.
	if opts.bundlingEnabled() {
		edges = t.bundleEdges(nodes, edges, opts, logger)
	}

	return &Result{
		Nodes:  nodes,
		Edges:  edges,
		Bounds: layoutResult.Bounds,
	}, nil
}

// =============================================================================
// Layout Resolution
// =============================================================================

// resolveLayout decides which algorithm actually runs and with which options,
// applying the documented fallbacks: unknown algorithms and unmet
// preconditions (no radial center, no manual positions) degrade to
// force-directed.
func (t *Transformer) resolveLayout(g *graph.TypedGraph, opts Options, logger *log.Logger) (layout.Kind, layout.Options) {
	kind := opts.Algorithm
	layoutOpts := opts.Layout

	if !layout.ValidKinds[kind] {
		logger.Warn("unknown layout algorithm, using force-directed", "algorithm", kind)
		return layout.KindForce, layoutOpts
	}

	switch kind {
	case layout.KindManual:
		if len(opts.ExistingPositions) == 0 {
			logger.Warn("manual layout without positions, using force-directed")
			return layout.KindForce, layoutOpts
		}
		layoutOpts.Positions = opts.ExistingPositions

	case layout.KindRadial:
		center := opts.CenterNodeID
		if center == "" || !g.HasNode(center) {
			center = selectRadialCenter(g)
			if center == "" {
				logger.Warn("radial layout without a usable center, using force-directed")
				return layout.KindForce, layoutOpts
			}
			logger.Debug("selected radial center by centrality", "node", center)
		}
		layoutOpts.CenterNodeID = center
	}

	return kind, layoutOpts
}

// selectRadialCenter picks the stakeholder with the highest degree
// centrality; when no stakeholders exist, the highest-centrality node of any
// type. Candidates are scanned in sorted ID order, so ties deterministically
// resolve to the lexicographically smallest ID.
func selectRadialCenter(g *graph.TypedGraph) string {
	best := ""
	bestDegree := -1
	bestIsStakeholder := false
	for _, n := range g.Nodes() {
		isStakeholder := n.Type == graph.TypeStakeholder
		switch {
		case isStakeholder && !bestIsStakeholder:
			// Stakeholders always beat non-stakeholders.
		case !isStakeholder && bestIsStakeholder:
			continue
		default:
			if n.Metrics.Degree <= bestDegree {
				continue
			}
		}
		best = n.ID
		bestDegree = n.Metrics.Degree
		bestIsStakeholder = isStakeholder
	}
	return best
}

// cachedLayout returns the layout for the graph view, computing and caching
// on miss. A layout error falls back to force-directed and, failing that, to
// an empty result - never to a transform error.
func (t *Transformer) cachedLayout(kind layout.Kind, g *graph.TypedGraph, opts layout.Options, logger *log.Logger) layout.Result {
	key := t.fingerprint(kind, g)
	if res, ok := t.cache.get(key); ok {
		return res
	}

	start := time.Now()
	algo := t.algorithms[kind]
	res, err := algo.Layout(g, opts)
	if err != nil {
		logger.Warn("layout failed, using force-directed", "algorithm", kind, "err", err)
		res, err = t.algorithms[layout.KindForce].Layout(g, opts)
		if err != nil {
			logger.Error("force-directed fallback failed", "err", err)
			res = layout.Result{NodePositions: map[string]layout.Point{}}
		}
	}
	observability.Transform().OnLayoutComputed(context.Background(), string(kind), g.NodeCount(), time.Since(start))

	t.cache.put(key, res)
	return res
}

// =============================================================================
// Materialization
// =============================================================================

// materializeNodes builds render nodes for every filtered node with a known
// position. Nodes lacking a position are skipped with a diagnostic - never an
// error. Returns the nodes plus the set of rendered IDs for edge soundness.
func (t *Transformer) materializeNodes(g *graph.TypedGraph, lay layout.Result, detail zoom.DetailLevel, opts Options, logger *log.Logger) ([]RenderNode, map[string]bool) {
	nodes := make([]RenderNode, 0, g.NodeCount())
	rendered := make(map[string]bool, g.NodeCount())

	for _, n := range g.Nodes() {
		center, ok := lay.NodePositions[n.ID]
		if !ok {
			logger.Debug("node has no computed position, skipping", "node", n.ID)
			continue
		}

		style := graph.StyleFor(n.Type)
		rn := RenderNode{
			ID:          n.ID,
			Type:        n.Type,
			Label:       n.DisplayLabel(),
			Layer:       style.Layer,
			X:           center.X - style.Width/2,
			Y:           center.Y - style.Height/2,
			Width:       style.Width,
			Height:      style.Height,
			DetailLevel: detail,
			Changeset:   n.Changeset,
			Color:       style.Color,
			Icon:        style.Icon,
		}
		if detail == zoom.DetailDetailed {
			rn.Properties = n.Properties
		}

		t.applyNodeStyle(&rn, n, opts)
		t.attachCoverage(&rn, opts)

		nodes = append(nodes, rn)
		rendered[n.ID] = true
	}

	return nodes, rendered
}

// applyNodeStyle resolves opacity, highlight, and badge state. Exactly one of
// three mutually exclusive branches applies per transform call, in priority
// order: active path trace, focus context, neutral.
func (t *Transformer) applyNodeStyle(rn *RenderNode, n *graph.Node, opts Options) {
	switch {
	case opts.Highlight.active():
		if opts.Highlight.NodeIDs[n.ID] {
			rn.Opacity = FullOpacity
			rn.Highlighted = true
			rn.Selected = opts.Highlight.selected(n.ID)
		} else {
			dimNode(rn, n)
		}

	case opts.FocusContext && len(opts.Highlight.NodeIDs) > 0:
		if opts.Highlight.NodeIDs[n.ID] {
			rn.Opacity = FullOpacity
			rn.Highlighted = true
		} else {
			dimNode(rn, n)
		}

	default:
		rn.Opacity = FullOpacity
	}
}

// dimNode fades a node and attaches its relationship-count badge. Badges only
// ever attach to dimmed nodes.
func dimNode(rn *RenderNode, n *graph.Node) {
	rn.Opacity = DimmedOpacity
	rn.Badge = &RelationshipBadge{
		Total:    n.Metrics.Degree,
		Incoming: n.Metrics.InDegree,
		Outgoing: n.Metrics.OutDegree,
	}
}

// attachCoverage adds the coverage indicator to goal nodes when coverages
// were supplied.
func (t *Transformer) attachCoverage(rn *RenderNode, opts Options) {
	if rn.Type != graph.TypeGoal || opts.GoalCoverages == nil {
		return
	}
	cov, ok := opts.GoalCoverages[rn.ID]
	if !ok {
		return
	}
	rn.Coverage = &CoverageIndicator{
		Status:           cov.Status,
		Icon:             coverage.Icon(cov.Status),
		Color:            coverage.Color(cov.Status),
		RequirementCount: cov.RequirementCount,
		ConstraintCount:  cov.ConstraintCount,
		Percentage:       cov.CoveragePercentage,
	}
}

// materializeEdges builds render edges for every filtered edge whose
// endpoints were actually rendered. Edges referencing a skipped node are
// omitted silently - expected during filtering, not an error.
func (t *Transformer) materializeEdges(g *graph.TypedGraph, rendered map[string]bool, showLabels bool, opts Options) []RenderEdge {
	edges := make([]RenderEdge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		if !rendered[e.SourceID] || !rendered[e.TargetID] {
			continue
		}

		re := RenderEdge{
			ID:        e.ID,
			SourceID:  e.SourceID,
			TargetID:  e.TargetID,
			Type:      e.Type,
			Weight:    e.Weight,
			Changeset: e.Changeset,
		}
		if showLabels {
			re.Label = string(e.Type)
		}

		switch {
		case opts.Highlight.active():
			if opts.Highlight.EdgeIDs[e.ID] {
				re.Opacity = FullOpacity
				re.Highlighted = true
			} else {
				re.Opacity = DimmedOpacity
			}
		case opts.FocusContext && len(opts.Highlight.NodeIDs) > 0:
			if opts.Highlight.NodeIDs[e.SourceID] && opts.Highlight.NodeIDs[e.TargetID] {
				re.Opacity = FullOpacity
			} else {
				re.Opacity = DimmedOpacity
			}
		default:
			re.Opacity = FullOpacity
		}

		edges = append(edges, re)
	}
	return edges
}

// =============================================================================
// Bundling
// =============================================================================

// bundleEdges applies edge bundling to the materialized edge list. Groups
// reaching the threshold collapse into one synthetic edge carrying the
// bundle; everything else passes through in order.
func (t *Transformer) bundleEdges(nodes []RenderNode, edges []RenderEdge, opts Options, logger *log.Logger) []RenderEdge {
	threshold := opts.BundleThreshold
	if threshold <= 0 {
		threshold = bundling.OptimalThreshold(len(nodes), len(edges))
	}

	layers := make(map[string]graph.Layer, len(nodes))
	for _, n := range nodes {
		layers[n.ID] = n.Layer
	}

	refs := make([]bundling.EdgeRef, len(edges))
	byID := make(map[string]RenderEdge, len(edges))
	for i, e := range edges {
		refs[i] = bundling.EdgeRef{
			ID:          e.ID,
			SourceID:    e.SourceID,
			TargetID:    e.TargetID,
			SourceLayer: string(layers[e.SourceID]),
			TargetLayer: string(layers[e.TargetID]),
		}
		byID[e.ID] = e
	}

	res := bundling.Apply(refs, bundling.Options{Threshold: threshold})
	if !res.WasBundled {
		return edges
	}
	logger.Debug("bundled edges", "bundles", len(res.Bundles), "saved", res.ReductionCount)

	out := make([]RenderEdge, 0, len(res.Passthrough)+len(res.Bundles))
	for _, id := range res.Passthrough {
		out = append(out, byID[id])
	}
	for _, b := range res.Bundles {
		out = append(out, RenderEdge{
			ID:       b.ID,
			SourceID: b.SourceID,
			TargetID: b.TargetID,
			Opacity:  FullOpacity,
			Bundle:   b,
		})
	}
	return out
}
