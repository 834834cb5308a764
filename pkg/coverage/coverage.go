// Package coverage implements the goal coverage analyzer.
//
// Coverage measures how well goals are backed by linked requirements and
// constraints. Each goal is classified as complete, partial, or uncovered,
// and a summary aggregates counts and an overall percentage across all goals
// in a graph snapshot. Coverage is computed on demand from relationship
// traversal; nothing is persisted.
//
// The analyzer is an explicitly constructed service object: callers build
// their own instance (with [NewAnalyzer]) and pass it where needed, so tests
// can use isolated instances with different expectations.
package coverage

import (
	"sort"

	"github.com/matzehuels/archlens/pkg/graph"
)

// Status classifies a goal's coverage.
type Status string

// Coverage statuses.
const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusNone     Status = "none"
)

// DefaultExpectedLinks is the number of linked requirements plus constraints
// a goal needs for full coverage. A goal with zero requirements is always
// uncovered regardless of constraints.
const DefaultExpectedLinks = 2

// GoalCoverage is the per-goal aggregate.
type GoalCoverage struct {
	GoalID             string  `json:"goal_id" bson:"goal_id"`
	RequirementCount   int     `json:"requirement_count" bson:"requirement_count"`
	ConstraintCount    int     `json:"constraint_count" bson:"constraint_count"`
	CoveragePercentage float64 `json:"coverage_percentage" bson:"coverage_percentage"`
	Status             Status  `json:"status" bson:"status"`
}

// Summary aggregates coverage across all goals in a snapshot.
type Summary struct {
	TotalGoals    int     `json:"total_goals" bson:"total_goals"`
	CompleteCount int     `json:"complete_count" bson:"complete_count"`
	PartialCount  int     `json:"partial_count" bson:"partial_count"`
	NoneCount     int     `json:"none_count" bson:"none_count"`
	// OverallCoverage is the simple average of per-goal percentages.
	OverallCoverage float64 `json:"overall_coverage" bson:"overall_coverage"`

	UncoveredGoals        []string `json:"uncovered_goals" bson:"uncovered_goals"`
	PartiallyCoveredGoals []string `json:"partially_covered_goals" bson:"partially_covered_goals"`
}

// Index maps each goal to the requirement and constraint IDs linked to it.
// Supplied by the model layer or built from a graph with [BuildIndex].
type Index map[string]Links

// Links lists the elements backing one goal.
type Links struct {
	RequirementIDs []string
	ConstraintIDs  []string
}

// Analyzer computes goal coverage. The zero value is not usable; construct
// with NewAnalyzer.
type Analyzer struct {
	expectedLinks int
}

// NewAnalyzer creates an analyzer. expectedLinks is the link count treated
// as full coverage; values below 1 select DefaultExpectedLinks.
func NewAnalyzer(expectedLinks int) *Analyzer {
	if expectedLinks < 1 {
		expectedLinks = DefaultExpectedLinks
	}
	return &Analyzer{expectedLinks: expectedLinks}
}

// BuildIndex derives a coverage index from a graph snapshot by traversing
// edges between goals and requirements or constraints. Both edge directions
// count: a requirement realizing a goal and a goal refined by a requirement
// link the same pair.
func BuildIndex(g *graph.TypedGraph) Index {
	idx := make(Index)
	for _, n := range g.Nodes() {
		if n.Type == graph.TypeGoal {
			idx[n.ID] = Links{}
		}
	}
	for _, e := range g.Edges() {
		goalID, otherID := classify(g, e)
		if goalID == "" {
			continue
		}
		links := idx[goalID]
		switch g.Node(otherID).Type {
		case graph.TypeRequirement:
			links.RequirementIDs = append(links.RequirementIDs, otherID)
		case graph.TypeConstraint:
			links.ConstraintIDs = append(links.ConstraintIDs, otherID)
		}
		idx[goalID] = links
	}
	return idx
}

// classify returns (goalID, otherID) when the edge connects a goal to a
// requirement or constraint, otherwise ("", "").
func classify(g *graph.TypedGraph, e *graph.Edge) (string, string) {
	src, dst := g.Node(e.SourceID), g.Node(e.TargetID)
	if src == nil || dst == nil {
		return "", ""
	}
	if src.Type == graph.TypeGoal && isBacking(dst.Type) {
		return src.ID, dst.ID
	}
	if dst.Type == graph.TypeGoal && isBacking(src.Type) {
		return dst.ID, src.ID
	}
	return "", ""
}

func isBacking(t graph.ElementType) bool {
	return t == graph.TypeRequirement || t == graph.TypeConstraint
}

// Analyze computes coverage for every goal in the index.
// Classification: zero requirements means none; requirements present and the
// combined link count reaching the expectation means complete; anything in
// between is partial.
func (a *Analyzer) Analyze(idx Index) map[string]GoalCoverage {
	out := make(map[string]GoalCoverage, len(idx))
	for goalID, links := range idx {
		out[goalID] = a.coverageFor(goalID, links)
	}
	return out
}

// AnalyzeGraph builds the index from the graph and analyzes it.
func (a *Analyzer) AnalyzeGraph(g *graph.TypedGraph) map[string]GoalCoverage {
	return a.Analyze(BuildIndex(g))
}

func (a *Analyzer) coverageFor(goalID string, links Links) GoalCoverage {
	cov := GoalCoverage{
		GoalID:           goalID,
		RequirementCount: len(links.RequirementIDs),
		ConstraintCount:  len(links.ConstraintIDs),
	}
	total := cov.RequirementCount + cov.ConstraintCount
	cov.CoveragePercentage = min(100, 100*float64(total)/float64(a.expectedLinks))

	switch {
	case cov.RequirementCount == 0:
		cov.Status = StatusNone
		cov.CoveragePercentage = 0
	case cov.CoveragePercentage >= 100:
		cov.Status = StatusComplete
	default:
		cov.Status = StatusPartial
	}
	return cov
}

// Summarize aggregates per-goal coverage into a summary. The goal lists are
// sorted by ID; callers may re-sort as they prefer.
func Summarize(coverages map[string]GoalCoverage) Summary {
	s := Summary{TotalGoals: len(coverages)}
	var totalPct float64
	for id, cov := range coverages {
		totalPct += cov.CoveragePercentage
		switch cov.Status {
		case StatusComplete:
			s.CompleteCount++
		case StatusPartial:
			s.PartialCount++
			s.PartiallyCoveredGoals = append(s.PartiallyCoveredGoals, id)
		case StatusNone:
			s.NoneCount++
			s.UncoveredGoals = append(s.UncoveredGoals, id)
		}
	}
	if s.TotalGoals > 0 {
		s.OverallCoverage = totalPct / float64(s.TotalGoals)
	}
	sort.Strings(s.UncoveredGoals)
	sort.Strings(s.PartiallyCoveredGoals)
	return s
}

// =============================================================================
// Presentation Hints
// =============================================================================

// statusHints maps each status to its presentation hints. Pure lookup data
// for the rendering layer; computation never reads it.
var statusHints = map[Status]struct{ icon, color string }{
	StatusComplete: {icon: "check-circle", color: "#22c55e"},
	StatusPartial:  {icon: "alert-circle", color: "#f59e0b"},
	StatusNone:     {icon: "x-circle", color: "#ef4444"},
}

// Icon returns the icon name for a coverage status.
func Icon(s Status) string { return statusHints[s].icon }

// Color returns the color hex string for a coverage status.
func Color(s Status) string { return statusHints[s].color }
