package octilinearizer

import (
	"context"
	"math"

	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/drawing"
	"github.com/lolpro11-org/loom/gridgraph"
	"github.com/lolpro11-org/loom/octirouter"
)

// neighborOffsets are the nine trial positions (the original cell plus
// its eight neighbors) spec.md §4.5 tries for each node during a
// relocation sweep.
var neighborOffsets = [9][2]int{
	{0, 0},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// relocationSweep performs one full pass of node-relocation refinement
// over every combinatorial node, per spec.md §4.5: for each node of
// degree > 0, erase its incident edges and unsettle it, then try
// re-embedding them at each of the 9 positions, keeping the best result
// found. g must already reflect dr's committed state, and will reflect
// the returned Drawing's state on return.
func relocationSweep(ctx context.Context, r *octirouter.Router, cg *combgraph.Graph, g *gridgraph.Grid, dr *drawing.Drawing) (*drawing.Drawing, error) {
	current := dr
	for _, node := range sortedNodeIDs(cg) {
		if cg.Degree(node) == 0 {
			continue
		}
		origCell, ok := current.NodeCell(node)
		if !ok {
			continue
		}
		incident := cg.IncidentEdges(node)
		incidentIDs := make([]combgraph.EdgeID, len(incident))
		for i, e := range incident {
			incidentIDs[i] = e.ID
		}

		base := current.Clone()
		for _, eid := range incidentIDs {
			base.EraseFromGrid(eid, g)
			base.Erase(eid)
		}
		g.UnSettleNd(node)

		best := current
		bestScore := current.Score()

		for _, off := range neighborOffsets {
			cand := gridgraph.Cell{X: origCell.X + off[0], Y: origCell.Y + off[1]}
			if !g.InBounds(cand) {
				continue
			}
			if id, settled := g.IsSettled(cand); settled && id != node {
				continue
			}

			trial := base.Clone()
			preSettled := map[combgraph.NodeID]gridgraph.Cell{node: cand}
			ok, err := attemptEmbedding(ctx, r, cg, g, trial, incidentIDs, preSettled, math.Inf(1))
			if err != nil {
				return nil, err
			}
			if ok && trial.Score() < bestScore {
				best = trial
				bestScore = trial.Score()
			}

			for _, eid := range incidentIDs {
				trial.EraseFromGrid(eid, g)
			}
			if id, settled := g.IsSettled(cand); settled && id == node {
				g.UnSettleNd(node)
			}
		}

		current = best
		if cell, ok := current.NodeCell(node); ok {
			_ = g.SettleNd(cell, node)
		}
		for _, eid := range incidentIDs {
			if _, ok := current.Path(eid); ok {
				if err := current.ApplyToGrid(eid, g); err != nil {
					return nil, err
				}
			}
		}
	}
	return current, nil
}
