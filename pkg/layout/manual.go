package layout

import (
	"github.com/matzehuels/archlens/pkg/graph"

	archerrors "github.com/matzehuels/archlens/pkg/errors"
)

type manual struct{}

// Manual returns the pinned-position layout strategy. Positions come straight
// from Options.Positions; nodes without a pinned position are left out of the
// result (the transformer skips them with a diagnostic rather than erroring).
//
// Manual returns an error when no positions are supplied at all; the
// transformer substitutes force-directed layout in that case.
func Manual() Algorithm { return manual{} }

func (manual) Name() Kind { return KindManual }

func (manual) Layout(g *graph.TypedGraph, opts Options) (Result, error) {
	if len(opts.Positions) == 0 {
		return Result{}, archerrors.New(archerrors.ErrCodeInvalidOptions, "manual layout requires existing positions")
	}

	positions := make(map[string]Point, g.NodeCount())
	for _, id := range g.NodeIDs() {
		if p, ok := opts.Positions[id]; ok {
			positions[id] = p
		}
	}

	return Result{
		NodePositions: positions,
		Bounds:        boundsOf(positions),
	}, nil
}
