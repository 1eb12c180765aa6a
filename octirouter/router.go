// Package octirouter embeds one combinatorial edge at a time onto a
// gridgraph.Grid, per spec.md §4.4. It is grounded in the teacher's own
// grid router (d2layouts/d2gridrouter/router.go: candidate/crossing
// handling, RouteEdges ordering) and, for the exact candidate-growth and
// offset formulas, in the original engine's Octilinearizer::draw /
// getRtPair / getCands (original_source/src/octi/Octilinearizer.cpp).
package octirouter

import (
	"context"
	"fmt"
	"math"

	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/drawing"
	"github.com/lolpro11-org/loom/gridgraph"
	"github.com/lolpro11-org/loom/internal/geo"
)

// Router embeds combinatorial edges onto a Grid one at a time.
type Router struct{}

// New returns a Router. Router holds no state of its own — all mutable
// state lives in the Grid and Drawing passed to RouteEdge — so a single
// Router may be reused (but not shared concurrently over the same Grid;
// see spec.md §5).
func New() *Router { return &Router{} }

// RouteEdge attempts to embed comb edge e onto g, recording the result in
// dr and applying its settlement effects to g on success. preSettled
// supplies this attempt's pre-placement hints (node-relocation trial
// positions); cutoff is the remaining cost budget for this edge
// (globalCutoff - dr.Score(), per spec.md §4.4). It returns ok=false,
// nil error when no path exists within budget — a local, silent failure
// the caller should treat as attempt abandonment, not a fatal error.
func (r *Router) RouteEdge(ctx context.Context, cg *combgraph.Graph, g *gridgraph.Grid, dr *drawing.Drawing, e *combgraph.Edge, preSettled map[combgraph.NodeID]gridgraph.Cell, cutoff float64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	frNode, toNode := e.From, e.To
	frCells, toCells, err := getRtPair(cg, g, frNode, toNode, preSettled)
	if err != nil {
		return false, err
	}
	if len(frCells) == 0 || len(toCells) == 0 {
		return false, nil
	}

	reversed := false
	if len(toCells) > len(frCells) {
		frNode, toNode = toNode, frNode
		frCells, toCells = toCells, frCells
		reversed = true
	}

	penPerGrid := g.Penalties.PenPerGrid()
	c0 := g.Penalties.C0()

	frOffsets := make(map[gridgraph.Cell]float64, len(frCells))
	for c := range frCells {
		if isSettledNode(g, frNode) {
			frOffsets[c] = 0
		} else {
			gridD := math.Floor(gridDistance(g, c, cg.Nodes[frNode].Pos))
			frOffsets[c] = c0 + gridD*penPerGrid
		}
		g.OpenNodeSink(c, frOffsets[c])
	}
	toOffsets := make(map[gridgraph.Cell]float64, len(toCells))
	for c := range toCells {
		if isSettledNode(g, toNode) {
			toOffsets[c] = 0
		} else {
			gridD := math.Floor(gridDistance(g, c, cg.Nodes[toNode].Pos))
			toOffsets[c] = c0 + gridD*penPerGrid
		}
		g.OpenNodeSink(c, toOffsets[c])
	}

	var injectedFr, injectedTo [gridgraph.NumDirections]float64
	var injFrCell, injToCell gridgraph.Cell
	didInjectFr, didInjectTo := false, false
	if len(frCells) == 1 && isSettledNode(g, frNode) {
		for c := range frCells {
			injFrCell = c
		}
		injectedFr = nodeCostVector(cg, g, dr, frNode, e.ID)
		for d, v := range injectedFr {
			g.AddPortCost(injFrCell, gridgraph.Direction(d), v)
		}
		didInjectFr = true
	}
	if len(toCells) == 1 && isSettledNode(g, toNode) {
		for c := range toCells {
			injToCell = c
		}
		injectedTo = nodeCostVector(cg, g, dr, toNode, e.ID)
		for d, v := range injectedTo {
			g.AddPortCost(injToCell, gridgraph.Direction(d), v)
		}
		didInjectTo = true
	}

	cleanup := func() {
		for c := range frCells {
			g.CloseNodeSink(c)
		}
		for c := range toCells {
			g.CloseNodeSink(c)
		}
		if didInjectFr {
			for d, v := range injectedFr {
				g.AddPortCost(injFrCell, gridgraph.Direction(d), -v)
			}
		}
		if didInjectTo {
			for d, v := range injectedTo {
				g.AddPortCost(injToCell, gridgraph.Direction(d), -v)
			}
		}
	}

	result, ok := shortestPath(g, frOffsets, toOffsets, cutoff)
	if !ok {
		cleanup()
		return false, nil
	}
	cleanup()

	startCell, endCell := result.cells[0], result.cells[len(result.cells)-1]
	intrinsic := result.cost - frOffsets[startCell] - toOffsets[endCell]

	dr.Draw(e.ID, result.cells, intrinsic, reversed)
	if err := dr.ApplyToGrid(e.ID, g); err != nil {
		dr.Erase(e.ID)
		return false, fmt.Errorf("octirouter: applying edge %s to grid: %w", e.ID, err)
	}
	return true, nil
}

func isSettledNode(g *gridgraph.Grid, id combgraph.NodeID) bool {
	_, ok := g.NodeCell(id)
	return ok
}

// gridDistance returns the distance from cell c's center to target, in
// grid steps (world units divided by cell size), for the sink-offset
// formula in spec.md §4.4.
func gridDistance(g *gridgraph.Grid, c gridgraph.Cell, target geo.Point) float64 {
	return geo.Dist(g.CenterPos(c), target) / g.CellSize
}
