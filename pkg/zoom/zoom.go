// Package zoom implements the semantic zoom controller.
//
// Semantic zoom decides what the diagram shows purely as a function of a
// numeric zoom level: which element types are visible, how much of a node's
// content renders, and whether edge labels appear. All functions here are
// pure step functions over the zoom axis - calling with the same zoom level
// always returns the same result, and visibility only ever grows as the zoom
// level increases.
//
// Zoom levels are typically in (0, 3], unbounded above in principle. The
// default interactive level is 1.0.
package zoom

import (
	"github.com/matzehuels/archlens/pkg/graph"
)

// DetailLevel controls how much of a node's content renders.
type DetailLevel string

// Detail levels, from least to most content.
const (
	DetailMinimal  DetailLevel = "minimal"
	DetailStandard DetailLevel = "standard"
	DetailDetailed DetailLevel = "detailed"
)

// Zoom thresholds for the visibility step function.
const (
	thresholdStrategic = 0.5  // drivers, outcomes, requirements, constraints
	thresholdTactical  = 1.0  // remaining motivation + business layer
	thresholdFull      = 1.75 // everything, including C4 and data layers
)

// Zoom thresholds for the detail step function.
const (
	thresholdStandardDetail = 0.75
	thresholdFullDetail     = 1.5
)

// visibilityBands lists the element types revealed at each threshold.
// Bands are cumulative: each level includes everything below it, which makes
// VisibleElementTypes monotone in the zoom level by construction.
var visibilityBands = []struct {
	minZoom float64
	types   []graph.ElementType
}{
	{0, []graph.ElementType{
		graph.TypeStakeholder, graph.TypeGoal,
	}},
	{thresholdStrategic, []graph.ElementType{
		graph.TypeDriver, graph.TypeOutcome, graph.TypeRequirement, graph.TypeConstraint,
	}},
	{thresholdTactical, []graph.ElementType{
		graph.TypePrinciple, graph.TypeAssumption, graph.TypeValueStream, graph.TypeAssessment,
		graph.TypeRole, graph.TypeProcess, graph.TypeService, graph.TypeFunction, graph.TypeCapability,
	}},
	{thresholdFull, []graph.ElementType{
		graph.TypeSystem, graph.TypeContainer, graph.TypeComponent,
		graph.TypeSchema, graph.TypeDatabase,
	}},
}

// VisibleElementTypes returns the set of element types visible at the given
// zoom level. Low zoom shows only high-level strategic types (stakeholders,
// goals); higher zoom levels reveal progressively more until every type is
// visible. For z1 < z2 the result for z1 is always a subset of the result
// for z2.
func VisibleElementTypes(level float64) map[graph.ElementType]bool {
	visible := make(map[graph.ElementType]bool)
	for _, band := range visibilityBands {
		if level < band.minZoom {
			break
		}
		for _, t := range band.types {
			visible[t] = true
		}
	}
	return visible
}

// TypeVisible reports whether nodes of type t render at the given zoom
// level. Types outside the known set have no visibility band of their own;
// they appear once everything else does, degrading to the default style
// dimensions rather than vanishing from the diagram entirely.
func TypeVisible(t graph.ElementType, level float64) bool {
	if !graph.IsKnownElementType(t) {
		return level >= thresholdFull
	}
	return VisibleElementTypes(level)[t]
}

// NodeDetailLevel returns the detail level that applies at the given zoom
// level: minimal below 0.75, standard up to 1.5, detailed above.
func NodeDetailLevel(level float64) DetailLevel {
	switch {
	case level < thresholdStandardDetail:
		return DetailMinimal
	case level < thresholdFullDetail:
		return DetailStandard
	default:
		return DetailDetailed
	}
}

// ShowEdgeLabels reports whether relationship labels should render.
// Labels only appear in the highest detail band.
func ShowEdgeLabels(level float64) bool {
	return NodeDetailLevel(level) == DetailDetailed
}
