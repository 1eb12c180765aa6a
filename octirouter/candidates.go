package octirouter

import (
	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/gridgraph"
	"github.com/lolpro11-org/loom/internal/geo"
)

// minRadiusFactor and maxRadiusFactor are the candidate-search growth
// bounds, in multiples of the cell size, from
// spec.md §4.4 and §6 ("radiusGrow: default 4x and 25x of cellSize").
const (
	minRadiusFactor = 4.0
	maxRadiusFactor = 25.0
)

// getCands returns node's candidate grid cells: its settled cell if any,
// else its pre-placement hint if one exists and is free, else every
// unsettled cell within maxDis of node's geographic position — spec.md
// §4.4's three-way candidate rule, grounded in
// Octilinearizer::getCands.
func getCands(cg *combgraph.Graph, g *gridgraph.Grid, node combgraph.NodeID, preSettled map[combgraph.NodeID]gridgraph.Cell, maxDis float64) map[gridgraph.Cell]bool {
	if c, ok := g.NodeCell(node); ok {
		return map[gridgraph.Cell]bool{c: true}
	}
	if c, ok := preSettled[node]; ok {
		if _, settled := g.IsSettled(c); !settled {
			return map[gridgraph.Cell]bool{c: true}
		}
		return nil
	}

	out := make(map[gridgraph.Cell]bool)
	pos := cg.Nodes[node].Pos
	for _, c := range g.CellsWithinRadius(pos, maxDis) {
		if _, settled := g.IsSettled(c); settled {
			continue
		}
		out[c] = true
	}
	return out
}

// getRtPair computes the disjoint source/target candidate cell sets for
// routing a combinatorial edge between from and to, growing the search
// radius until both sides are non-empty (or the radius bound is
// exceeded) and partitioning any cells both sides would otherwise share
// by a Voronoi assignment to the geographically nearer endpoint — spec.md
// §4.4, grounded in Octilinearizer::getRtPair.
func getRtPair(cg *combgraph.Graph, g *gridgraph.Grid, from, to combgraph.NodeID, preSettled map[combgraph.NodeID]gridgraph.Cell) (map[gridgraph.Cell]bool, map[gridgraph.Cell]bool, error) {
	fromPos, toPos := cg.Nodes[from].Pos, cg.Nodes[to].Pos

	maxDis := g.CellSize * minRadiusFactor
	frSet := map[gridgraph.Cell]bool{}
	toSet := map[gridgraph.Cell]bool{}

	for (len(frSet) == 0 || len(toSet) == 0) && maxDis < g.CellSize*maxRadiusFactor {
		frCands := getCands(cg, g, from, preSettled, maxDis)
		toCands := getCands(cg, g, to, preSettled, maxDis)

		frSet = map[gridgraph.Cell]bool{}
		toSet = map[gridgraph.Cell]bool{}
		for c := range frCands {
			if toCands[c] {
				continue
			}
			frSet[c] = true
		}
		for c := range toCands {
			if frCands[c] {
				continue
			}
			toSet[c] = true
		}
		for c := range frCands {
			if !toCands[c] {
				continue
			}
			if geo.Dist(g.CenterPos(c), fromPos) < geo.Dist(g.CenterPos(c), toPos) {
				frSet[c] = true
			} else {
				toSet[c] = true
			}
		}

		maxDis *= 2
	}

	return frSet, toSet, nil
}
