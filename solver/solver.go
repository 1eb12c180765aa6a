// Package solver defines the narrow interface the rest of this module
// programs against, so cmd/octi (and any future caller) depends on an
// abstraction rather than octilinearizer.Heuristic directly — the same
// shape as the teacher's d2plugin.Plugin boundary around its layout
// engines (d2plugin/plugin_elk.go, d2plugin/plugin_wueortho.go).
package solver

import (
	"context"

	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/drawing"
	"github.com/lolpro11-org/loom/gridgraph"
)

// Solver draws cg onto g, returning the resulting Drawing. Implementations
// may mutate g (settling nodes, closing grid edges) as part of producing
// the result; callers that need g untouched should pass a Clone.
type Solver interface {
	Draw(ctx context.Context, cg *combgraph.Graph, g *gridgraph.Grid) (*drawing.Drawing, error)
}
