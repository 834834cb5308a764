package transform

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archlens/pkg/coverage"
	"github.com/matzehuels/archlens/pkg/graph"
	"github.com/matzehuels/archlens/pkg/layout"
)

// DefaultZoomLevel is the zoom applied when options carry none.
const DefaultZoomLevel = 1.0

// HighlightMode names a path-tracing mode.
type HighlightMode string

// Highlight modes. Anything other than HighlightNone activates the
// highlight/dim branch of the styling policy.
const (
	HighlightNone       HighlightMode = "none"
	HighlightDirect     HighlightMode = "direct"
	HighlightUpstream   HighlightMode = "upstream"
	HighlightDownstream HighlightMode = "downstream"
	HighlightBetween    HighlightMode = "between"
)

// PathHighlight carries the state of an active path trace: the sets of
// highlighted elements plus the nodes the user selected to start the trace.
type PathHighlight struct {
	Mode            HighlightMode
	NodeIDs         map[string]bool
	EdgeIDs         map[string]bool
	SelectedNodeIDs []string
}

// active reports whether a path-trace mode is engaged.
func (p PathHighlight) active() bool {
	return p.Mode != "" && p.Mode != HighlightNone
}

func (p PathHighlight) selected(id string) bool {
	for _, s := range p.SelectedNodeIDs {
		if s == id {
			return true
		}
	}
	return false
}

// Options configures one transform invocation.
// The zero value selects force-directed layout at zoom 1.0 with bundling
// enabled and no filters.
type Options struct {
	// Algorithm selects the layout strategy. Empty or unknown values select
	// force-directed (the documented default case).
	Algorithm layout.Kind

	// Layout carries algorithm-specific tuning (spacing, iterations, seed).
	Layout layout.Options

	// ElementTypes restricts output to the listed element types.
	// Nil means no filter.
	ElementTypes []graph.ElementType

	// RelationTypes restricts output to the listed relationship types.
	// Nil means no filter.
	RelationTypes []graph.RelationType

	// CenterNodeID selects the radial hub. When absent or no longer present
	// in the filtered graph, a center is chosen by centrality (stakeholders
	// first).
	CenterNodeID string

	// ExistingPositions supplies pinned centers for manual layout. When
	// empty, manual falls back to force-directed.
	ExistingPositions map[string]layout.Point

	// Highlight is the active path-trace state.
	Highlight PathHighlight

	// FocusContext dims everything outside Highlight.NodeIDs even without an
	// active path-trace mode.
	FocusContext bool

	// ZoomLevel drives semantic filtering and detail resolution. Zero selects
	// DefaultZoomLevel.
	ZoomLevel float64

	// DisableBundling turns edge bundling off; the zero value keeps it on.
	DisableBundling bool

	// BundleThreshold overrides the computed bundling threshold when > 0.
	BundleThreshold int

	// GoalCoverages attaches coverage indicators to goal nodes when supplied.
	GoalCoverages map[string]coverage.GoalCoverage

	// Logger receives diagnostics (skipped nodes, layout fallbacks).
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults applies defaults in place. Unknown layout algorithms
// are not rejected here; they resolve to force-directed during the transform,
// matching the documented default case.
func (o *Options) ValidateAndSetDefaults() {
	if o.ZoomLevel <= 0 {
		o.ZoomLevel = DefaultZoomLevel
	}
	if o.Algorithm == "" {
		o.Algorithm = layout.KindForce
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// bundlingEnabled reports whether the bundling stage should run.
func (o *Options) bundlingEnabled() bool { return !o.DisableBundling }
