package drawing

import (
	"sort"

	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/gridgraph"
	"github.com/lolpro11-org/loom/internal/geo"
	"github.com/lolpro11-org/loom/transitgraph"
)

// ToTransitGraph re-projects d back onto a new transitgraph.Graph: spec.md
// §6's "new TransitGraph whose nodes have octilinear positions snapped to
// grid centers and whose edges carry polylines following grid paths" —
// the last step of the flow in spec.md §2 ("best Drawing is re-projected
// to an output TransitGraph"). Grounded in Octilinearizer::draw's
// `drawing.getTransitGraph(&ret)` call
// (original_source/src/octi/Octilinearizer.cpp).
//
// src is the original (preprocessed) transit graph combgraph.Build derived
// d's combinatorial graph from; it supplies each combinatorial node's stop
// metadata and each combinatorial edge's underlying lines.
func (d *Drawing) ToTransitGraph(g *gridgraph.Grid, src *transitgraph.Graph) *transitgraph.Graph {
	out := transitgraph.NewGraph()

	for id, n := range d.cg.Nodes {
		cell, ok := d.NodeCell(id)
		if !ok {
			cell = g.CellNear(n.Pos)
		}
		var stops []transitgraph.StopID
		if sn, ok := src.Nodes[transitgraph.NodeID(id)]; ok {
			stops = sn.Stops
		}
		out.AddNode(&transitgraph.Node{
			ID:    transitgraph.NodeID(id),
			Pos:   g.CenterPos(cell),
			Stops: stops,
		})
	}

	ids := make([]combgraph.EdgeID, 0, len(d.paths))
	for id := range d.paths {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, eid := range ids {
		p := d.paths[eid]
		e := d.cg.Edges[eid]

		cells := p.Cells
		if p.Reversed {
			cells = reverseCells(cells)
		}
		polyline := make([]geo.Point, len(cells))
		for i, c := range cells {
			polyline[i] = g.CenterPos(c)
		}

		out.AddEdge(&transitgraph.Edge{
			ID:       transitgraph.EdgeID(eid),
			From:     transitgraph.NodeID(e.From),
			To:       transitgraph.NodeID(e.To),
			Polyline: polyline,
			Lines:    underlyingLines(src, e),
		})
	}

	return out
}

func reverseCells(cells []gridgraph.Cell) []gridgraph.Cell {
	out := make([]gridgraph.Cell, len(cells))
	for i, c := range cells {
		out[len(cells)-1-i] = c
	}
	return out
}

// underlyingLines unions the Lines of every original transit edge e
// collapsed into, preserving first-seen order and dropping duplicates —
// a combinatorial edge represents every line that used any of its
// collapsed chain's segments.
func underlyingLines(src *transitgraph.Graph, e *combgraph.Edge) []transitgraph.LineID {
	seen := make(map[transitgraph.LineID]bool)
	var out []transitgraph.LineID
	for _, ueid := range e.Underlying {
		ue, ok := src.Edges[ueid]
		if !ok {
			continue
		}
		for _, l := range ue.Lines {
			if seen[l] {
				continue
			}
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
