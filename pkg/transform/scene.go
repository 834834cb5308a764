package transform

import (
	"github.com/matzehuels/archlens/pkg/bundling"
	"github.com/matzehuels/archlens/pkg/coverage"
	"github.com/matzehuels/archlens/pkg/graph"
	"github.com/matzehuels/archlens/pkg/layout"
	"github.com/matzehuels/archlens/pkg/zoom"
)

// Opacity levels applied by the highlight/dim policy.
const (
	FullOpacity   = 1.0
	DimmedOpacity = 0.3
)

// RelationshipBadge shows a dimmed node's connectivity so users can judge
// whether it is worth following. Badges attach only to dimmed nodes.
type RelationshipBadge struct {
	Total    int `json:"total" bson:"total"`
	Incoming int `json:"incoming" bson:"incoming"`
	Outgoing int `json:"outgoing" bson:"outgoing"`
}

// CoverageIndicator is the per-goal coverage badge attached to goal nodes
// when coverages are supplied with the transform options.
type CoverageIndicator struct {
	Status           coverage.Status `json:"status" bson:"status"`
	Icon             string          `json:"icon" bson:"icon"`
	Color            string          `json:"color" bson:"color"`
	RequirementCount int             `json:"requirement_count" bson:"requirement_count"`
	ConstraintCount  int             `json:"constraint_count" bson:"constraint_count"`
	Percentage       float64         `json:"percentage" bson:"percentage"`
}

// RenderNode is a fully resolved node ready for the rendering layer.
// X and Y are the top-left corner, converted from the layout's center
// position using the element type's fixed dimensions.
type RenderNode struct {
	ID    string            `json:"id" bson:"id"`
	Type  graph.ElementType `json:"type" bson:"type"`
	Label string            `json:"label" bson:"label"`
	Layer graph.Layer       `json:"layer" bson:"layer"`

	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	DetailLevel zoom.DetailLevel `json:"detail_level" bson:"detail_level"`
	Opacity     float64          `json:"opacity" bson:"opacity"`
	Highlighted bool             `json:"highlighted,omitempty" bson:"highlighted,omitempty"`
	Selected    bool             `json:"selected,omitempty" bson:"selected,omitempty"`

	Badge    *RelationshipBadge `json:"badge,omitempty" bson:"badge,omitempty"`
	Coverage *CoverageIndicator `json:"coverage,omitempty" bson:"coverage,omitempty"`

	Changeset  graph.ChangesetOp `json:"changeset,omitempty" bson:"changeset,omitempty"`
	Properties graph.Properties  `json:"properties,omitempty" bson:"properties,omitempty"`

	Color string `json:"color" bson:"color"`
	Icon  string `json:"icon" bson:"icon"`
}

// RenderEdge is a fully resolved edge ready for the rendering layer.
// Synthetic bundle edges carry a non-nil Bundle.
type RenderEdge struct {
	ID       string             `json:"id" bson:"id"`
	SourceID string             `json:"source_id" bson:"source_id"`
	TargetID string             `json:"target_id" bson:"target_id"`
	Type     graph.RelationType `json:"type,omitempty" bson:"type,omitempty"`

	// Label is set only when the current zoom band shows edge labels.
	Label  string  `json:"label,omitempty" bson:"label,omitempty"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`

	Opacity     float64 `json:"opacity" bson:"opacity"`
	Highlighted bool    `json:"highlighted,omitempty" bson:"highlighted,omitempty"`

	Changeset graph.ChangesetOp `json:"changeset,omitempty" bson:"changeset,omitempty"`

	Bundle *bundling.Bundle `json:"bundle,omitempty" bson:"bundle,omitempty"`
}

// IsBundle reports whether the edge stands in for a collapsed bundle.
func (e *RenderEdge) IsBundle() bool { return e.Bundle != nil }

// Result is the renderable scene produced by one transform call.
type Result struct {
	Nodes  []RenderNode  `json:"nodes" bson:"nodes"`
	Edges  []RenderEdge  `json:"edges" bson:"edges"`
	Bounds layout.Bounds `json:"bounds" bson:"bounds"`
}
