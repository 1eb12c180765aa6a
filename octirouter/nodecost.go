package octirouter

import (
	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/drawing"
	"github.com/lolpro11-org/loom/gridgraph"
)

// usedDirection returns the compass direction edge id leaves node in, as
// already committed in dr, if node is one of its (possibly swapped)
// endpoints and it has been drawn.
func usedDirection(cg *combgraph.Graph, dr *drawing.Drawing, node combgraph.NodeID, id combgraph.EdgeID) (gridgraph.Direction, bool) {
	e := cg.Edges[id]
	p, ok := dr.Path(id)
	if !ok || len(p.Cells) < 2 {
		return 0, false
	}
	actualFrom, actualTo := e.From, e.To
	if p.Reversed {
		actualFrom, actualTo = actualTo, actualFrom
	}
	switch node {
	case actualFrom:
		d, ok := gridgraph.DirectionBetween(p.Cells[0], p.Cells[1])
		return d, ok
	case actualTo:
		n := len(p.Cells)
		d, ok := gridgraph.DirectionBetween(p.Cells[n-1], p.Cells[n-2])
		return d, ok
	default:
		return 0, false
	}
}

// nodeCostVector computes the three per-port cost contributions spec.md
// §4.3 describes — topological block, spacing, and node bend penalty —
// for routing a new edge into node's already-settled cell, given the
// directions node's other incident edges already committed to dr
// occupy. It is written only for the edge currently being routed
// (excluded == its own id) and added to the sink's ports only for the
// duration of this routing call (see RouteEdge's cleanup).
func nodeCostVector(cg *combgraph.Graph, g *gridgraph.Grid, dr *drawing.Drawing, node combgraph.NodeID, excluded combgraph.EdgeID) [gridgraph.NumDirections]float64 {
	var used []gridgraph.Direction
	for _, e := range cg.IncidentEdges(node) {
		if e.ID == excluded {
			continue
		}
		if d, ok := usedDirection(cg, dr, node, e.ID); ok {
			used = append(used, d)
		}
	}

	var vec [gridgraph.NumDirections]float64
	for _, d := range used {
		// Topological block: a candidate port exactly opposite an
		// already-used port would run this edge straight through
		// existing through-traffic at the node.
		vec[d.Opposite()] += g.Penalties.CrossPen

		// Spacing: discourage crowding a new edge into a port
		// immediately adjacent to one already claimed.
		vec[(d+1)%gridgraph.NumDirections] += g.Penalties.SplitPen
		vec[(d+gridgraph.NumDirections-1)%gridgraph.NumDirections] += g.Penalties.SplitPen
	}
	for _, p := range gridgraph.AllDirections {
		for _, d := range used {
			vec[p] += g.Penalties.BendCost(p, d)
		}
	}
	return vec
}
