// Package drawing implements the mutable embedding record spec.md §3
// calls Drawing: a mapping from combinatorial edges to grid paths, with
// apply/erase against a gridgraph.Grid and score aggregation. Per the
// design note in spec.md §9 ("implement with an explicit journal per
// Drawing ... so erase is exact, not approximate"), every applied path
// carries its own journal of grid mutations so eraseFromGrid can reverse
// exactly what applyToGrid did, independent of any other path sharing the
// same endpoints.
package drawing

import (
	"gonum.org/v1/gonum/floats"

	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/gridgraph"
)

// journalEntry records one grid mutation performed by applyToGrid, so
// eraseFromGrid can reverse it precisely.
type journalEntry struct {
	settledNode   bool
	wasSettled    bool
	prevSettledID combgraph.NodeID
	cell          gridgraph.Cell

	settledEdge bool
	from, to    gridgraph.Cell
}

// Path is one combinatorial edge's committed embedding: the sequence of
// grid cells its route occupies (endpoints inclusive), in From->To order
// unless Reversed, and the intrinsic cost of that route.
type Path struct {
	Edge     combgraph.EdgeID
	Cells    []gridgraph.Cell
	Cost     float64
	Reversed bool

	journal []journalEntry
}

// Drawing maps every committed combinatorial edge to its Path, and every
// settled combinatorial node to the cell it resolved to.
type Drawing struct {
	cg    *combgraph.Graph
	paths map[combgraph.EdgeID]*Path
	nodes map[combgraph.NodeID]gridgraph.Cell
}

// New returns an empty Drawing over the combinatorial graph cg.
func New(cg *combgraph.Graph) *Drawing {
	return &Drawing{
		cg:    cg,
		paths: make(map[combgraph.EdgeID]*Path),
		nodes: make(map[combgraph.NodeID]gridgraph.Cell),
	}
}

// Clone returns a deep, independent copy of d, for trial mutation during
// node-relocation refinement (spec.md §4.5: "clone the current Drawing").
func (d *Drawing) Clone() *Drawing {
	out := New(d.cg)
	for id, p := range d.paths {
		cp := *p
		cp.Cells = append([]gridgraph.Cell(nil), p.Cells...)
		cp.journal = append([]journalEntry(nil), p.journal...)
		out.paths[id] = &cp
	}
	for n, c := range d.nodes {
		out.nodes[n] = c
	}
	return out
}

// Draw records edge's route without touching the grid. Call ApplyToGrid
// separately to commit it.
func (d *Drawing) Draw(edge combgraph.EdgeID, cells []gridgraph.Cell, cost float64, reversed bool) {
	d.paths[edge] = &Path{
		Edge:     edge,
		Cells:    append([]gridgraph.Cell(nil), cells...),
		Cost:     cost,
		Reversed: reversed,
	}
	e := d.cg.Edges[edge]
	from, to := cells[0], cells[len(cells)-1]
	if reversed {
		from, to = to, from
	}
	d.nodes[e.From] = from
	d.nodes[e.To] = to
}

// Erase removes edge's route from the Drawing's bookkeeping only; it does
// not touch the grid (see EraseFromGrid).
func (d *Drawing) Erase(edge combgraph.EdgeID) {
	delete(d.paths, edge)
}

// Path returns edge's recorded path, if any.
func (d *Drawing) Path(edge combgraph.EdgeID) (*Path, bool) {
	p, ok := d.paths[edge]
	return p, ok
}

// NodeCell returns the cell the combinatorial node n currently resolves
// to, if it has been drawn.
func (d *Drawing) NodeCell(n combgraph.NodeID) (gridgraph.Cell, bool) {
	c, ok := d.nodes[n]
	return c, ok
}

// Score returns the sum of every committed path's cost.
func (d *Drawing) Score() float64 {
	costs := make([]float64, 0, len(d.paths))
	for _, p := range d.paths {
		costs = append(costs, p.Cost)
	}
	return floats.Sum(costs)
}

// ApplyToGrid replays edge's settlement effect onto g: it settles both
// endpoint centers to their combinatorial nodes and closes each grid edge
// the route traverses, recording exactly what it changed so EraseFromGrid
// can undo it precisely.
func (d *Drawing) ApplyToGrid(edge combgraph.EdgeID, g *gridgraph.Grid) error {
	p, ok := d.paths[edge]
	if !ok {
		return nil
	}
	e := d.cg.Edges[edge]
	fromNode, toNode := e.From, e.To
	if p.Reversed {
		fromNode, toNode = toNode, fromNode
	}

	var journal []journalEntry
	settleOne := func(cell gridgraph.Cell, node combgraph.NodeID) error {
		prevID, wasSettled := g.IsSettled(cell)
		if wasSettled && prevID == node {
			return nil
		}
		if err := g.SettleNd(cell, node); err != nil {
			return err
		}
		journal = append(journal, journalEntry{settledNode: true, wasSettled: wasSettled, prevSettledID: prevID, cell: cell})
		return nil
	}

	if err := settleOne(p.Cells[0], fromNode); err != nil {
		return err
	}
	if err := settleOne(p.Cells[len(p.Cells)-1], toNode); err != nil {
		return err
	}

	for i := 0; i+1 < len(p.Cells); i++ {
		from, to := p.Cells[i], p.Cells[i+1]
		if err := g.SettleEdg(from, to); err != nil {
			return err
		}
		journal = append(journal, journalEntry{settledEdge: true, from: from, to: to})
	}

	p.journal = journal
	return nil
}

// EraseFromGrid reverses exactly the mutations ApplyToGrid performed for
// edge, leaving g as if edge had never been applied — spec.md §8's
// round-trip law: "drawing.apply(g); drawing.erase(g) leaves g
// bit-identical to its state before."
func (d *Drawing) EraseFromGrid(edge combgraph.EdgeID, g *gridgraph.Grid) {
	p, ok := d.paths[edge]
	if !ok {
		return
	}
	for i := len(p.journal) - 1; i >= 0; i-- {
		j := p.journal[i]
		switch {
		case j.settledEdge:
			g.ReopenEdg(j.from, j.to)
		case j.settledNode:
			if j.wasSettled {
				_ = g.SettleNd(j.cell, j.prevSettledID)
			} else {
				if id, ok := g.IsSettled(j.cell); ok {
					g.UnSettleNd(id)
				}
			}
		}
	}
	p.journal = nil
}

// Edges returns every combinatorial edge id currently drawn.
func (d *Drawing) Edges() []combgraph.EdgeID {
	out := make([]combgraph.EdgeID, 0, len(d.paths))
	for id := range d.paths {
		out = append(out, id)
	}
	return out
}
