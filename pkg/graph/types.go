package graph

import (
	"fmt"
)

// =============================================================================
// Element Types - Closed Enumeration
// =============================================================================

// ElementType identifies the architectural concept a node represents.
// The enumeration is closed: every type has an entry in the style registry,
// which is verified at package initialization.
type ElementType string

// Motivation layer element types.
const (
	TypeStakeholder ElementType = "stakeholder"
	TypeDriver      ElementType = "driver"
	TypeAssessment  ElementType = "assessment"
	TypeGoal        ElementType = "goal"
	TypeOutcome     ElementType = "outcome"
	TypePrinciple   ElementType = "principle"
	TypeRequirement ElementType = "requirement"
	TypeConstraint  ElementType = "constraint"
	TypeAssumption  ElementType = "assumption"
	TypeValueStream ElementType = "value_stream"
)

// Business layer element types.
const (
	TypeRole       ElementType = "role"
	TypeProcess    ElementType = "process"
	TypeService    ElementType = "service"
	TypeFunction   ElementType = "function"
	TypeCapability ElementType = "capability"
)

// C4 layer element types.
const (
	TypeSystem    ElementType = "system"
	TypeContainer ElementType = "container"
	TypeComponent ElementType = "component"
)

// Data layer element types.
const (
	TypeSchema   ElementType = "schema"
	TypeDatabase ElementType = "database"
)

// Layer identifies the architectural layer an element type belongs to.
type Layer string

// Architectural layers.
const (
	LayerMotivation Layer = "motivation"
	LayerBusiness   Layer = "business"
	LayerC4         Layer = "c4"
	LayerData       Layer = "data_model"
)

// =============================================================================
// Relationship Types - Closed Enumeration
// =============================================================================

// RelationType identifies the kind of relationship an edge represents.
type RelationType string

// Relationship types.
const (
	RelInfluence     RelationType = "influence"
	RelConstrains    RelationType = "constrains"
	RelConstrainedBy RelationType = "constrained_by"
	RelRealizes      RelationType = "realizes"
	RelRefines       RelationType = "refines"
	RelConflicts     RelationType = "conflicts"
	RelSupports      RelationType = "supports"
	RelAssociation   RelationType = "association"
	RelAssignment    RelationType = "assignment"
	RelServing       RelationType = "serving"
	RelAccess        RelationType = "access"
	RelFlow          RelationType = "flow"
)

// =============================================================================
// Changeset Operations
// =============================================================================

// ChangesetOp marks an element's diff status relative to a prior snapshot.
type ChangesetOp string

// Changeset operations.
const (
	ChangesetNone   ChangesetOp = ""
	ChangesetAdd    ChangesetOp = "add"
	ChangesetUpdate ChangesetOp = "update"
	ChangesetDelete ChangesetOp = "delete"
)

// =============================================================================
// Style Registry - Data-Driven Type Dispatch
// =============================================================================

// Style describes the fixed visual descriptor for an element type: the node
// dimensions used to convert layout centers to top-left positions, plus
// presentation hints consumed by the rendering layer.
type Style struct {
	Layer  Layer   `json:"layer" bson:"layer"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Color  string  `json:"color" bson:"color"`
	Icon   string  `json:"icon" bson:"icon"`
}

// Default node dimensions used when a style entry carries none.
const (
	DefaultNodeWidth  = 180.0
	DefaultNodeHeight = 90.0
)

// elementStyles maps every element type to its visual descriptor.
// Completeness over ElementTypes is checked in init.
var elementStyles = map[ElementType]Style{
	TypeStakeholder: {Layer: LayerMotivation, Width: 180, Height: 90, Color: "#8b5cf6", Icon: "person"},
	TypeDriver:      {Layer: LayerMotivation, Width: 180, Height: 90, Color: "#a78bfa", Icon: "gauge"},
	TypeAssessment:  {Layer: LayerMotivation, Width: 180, Height: 90, Color: "#c4b5fd", Icon: "clipboard"},
	TypeGoal:        {Layer: LayerMotivation, Width: 180, Height: 90, Color: "#7c3aed", Icon: "target"},
	TypeOutcome:     {Layer: LayerMotivation, Width: 180, Height: 90, Color: "#6d28d9", Icon: "flag"},
	TypePrinciple:   {Layer: LayerMotivation, Width: 180, Height: 90, Color: "#ddd6fe", Icon: "compass"},
	TypeRequirement: {Layer: LayerMotivation, Width: 180, Height: 90, Color: "#5b21b6", Icon: "check-square"},
	TypeConstraint:  {Layer: LayerMotivation, Width: 180, Height: 90, Color: "#4c1d95", Icon: "lock"},
	TypeAssumption:  {Layer: LayerMotivation, Width: 180, Height: 90, Color: "#ede9fe", Icon: "help-circle"},
	TypeValueStream: {Layer: LayerMotivation, Width: 220, Height: 70, Color: "#9333ea", Icon: "arrow-right"},

	TypeRole:       {Layer: LayerBusiness, Width: 200, Height: 80, Color: "#fbbf24", Icon: "user"},
	TypeProcess:    {Layer: LayerBusiness, Width: 200, Height: 80, Color: "#f59e0b", Icon: "workflow"},
	TypeService:    {Layer: LayerBusiness, Width: 200, Height: 80, Color: "#d97706", Icon: "cog"},
	TypeFunction:   {Layer: LayerBusiness, Width: 200, Height: 80, Color: "#b45309", Icon: "box"},
	TypeCapability: {Layer: LayerBusiness, Width: 200, Height: 80, Color: "#92400e", Icon: "layers"},

	TypeSystem:    {Layer: LayerC4, Width: 240, Height: 120, Color: "#1168bd", Icon: "server"},
	TypeContainer: {Layer: LayerC4, Width: 240, Height: 120, Color: "#438dd5", Icon: "package"},
	TypeComponent: {Layer: LayerC4, Width: 220, Height: 100, Color: "#85bbf0", Icon: "puzzle"},

	TypeSchema:   {Layer: LayerData, Width: 160, Height: 100, Color: "#059669", Icon: "table"},
	TypeDatabase: {Layer: LayerData, Width: 160, Height: 100, Color: "#047857", Icon: "database"},
}

// ElementTypes is the complete, ordered list of known element types.
var ElementTypes = []ElementType{
	TypeStakeholder, TypeDriver, TypeAssessment, TypeGoal, TypeOutcome,
	TypePrinciple, TypeRequirement, TypeConstraint, TypeAssumption, TypeValueStream,
	TypeRole, TypeProcess, TypeService, TypeFunction, TypeCapability,
	TypeSystem, TypeContainer, TypeComponent,
	TypeSchema, TypeDatabase,
}

// RelationTypes is the complete, ordered list of known relationship types.
var RelationTypes = []RelationType{
	RelInfluence, RelConstrains, RelConstrainedBy, RelRealizes, RelRefines,
	RelConflicts, RelSupports, RelAssociation, RelAssignment, RelServing,
	RelAccess, RelFlow,
}

func init() {
	// The style registry must cover the closed enumeration exactly.
	for _, t := range ElementTypes {
		if _, ok := elementStyles[t]; !ok {
			panic(fmt.Sprintf("graph: element type %q has no style entry", t))
		}
	}
	if len(elementStyles) != len(ElementTypes) {
		panic("graph: style registry contains entries for unknown element types")
	}
}

// StyleFor returns the style descriptor for an element type.
// Unknown types resolve to a default descriptor rather than failing, so that
// transforms degrade gracefully on data produced by newer schemas.
func StyleFor(t ElementType) Style {
	if s, ok := elementStyles[t]; ok {
		return s
	}
	return Style{Layer: LayerMotivation, Width: DefaultNodeWidth, Height: DefaultNodeHeight, Color: "#9ca3af", Icon: "circle"}
}

// LayerOf returns the architectural layer of an element type.
func LayerOf(t ElementType) Layer {
	return StyleFor(t).Layer
}

// IsKnownElementType reports whether t is part of the closed enumeration.
func IsKnownElementType(t ElementType) bool {
	_, ok := elementStyles[t]
	return ok
}
