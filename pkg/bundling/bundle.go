package bundling

// State is the interaction state of a bundled edge.
type State string

// Bundle states. A bundle starts collapsed; clicking it expands it, clicking
// again (or clicking elsewhere) collapses it.
const (
	StateCollapsed State = "collapsed"
	StateExpanded  State = "expanded"
)

// Bundle is a synthetic edge standing in for a group of parallel edges.
// The rendering layer draws a collapsed bundle as one edge with a count
// badge; an expanded bundle reveals the original member edges.
type Bundle struct {
	ID       string   `json:"id" bson:"id"`
	GroupKey string   `json:"group_key" bson:"group_key"`
	SourceID string   `json:"source_id" bson:"source_id"`
	TargetID string   `json:"target_id" bson:"target_id"`
	EdgeIDs  []string `json:"edge_ids" bson:"edge_ids"`

	state State
}

// Count returns the number of member edges, shown on the count badge.
func (b *Bundle) Count() int { return len(b.EdgeIDs) }

// State returns the current interaction state.
func (b *Bundle) State() State {
	if b.state == "" {
		return StateCollapsed
	}
	return b.state
}

// IsExpanded reports whether the bundle currently reveals its members.
func (b *Bundle) IsExpanded() bool { return b.State() == StateExpanded }

// Toggle flips between collapsed and expanded, modeling a click on the
// bundle itself. Returns the new state.
func (b *Bundle) Toggle() State {
	if b.IsExpanded() {
		b.state = StateCollapsed
	} else {
		b.state = StateExpanded
	}
	return b.state
}

// Expand transitions to the expanded state and returns the member edge IDs
// in their original order.
func (b *Bundle) Expand() []string {
	b.state = StateExpanded
	return b.EdgeIDs
}

// Collapse restores the collapsed state, modeling a click elsewhere in the
// diagram.
func (b *Bundle) Collapse() {
	b.state = StateCollapsed
}
