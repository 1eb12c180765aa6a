// Package gridgraph implements the octilinear lattice spec.md §3 calls
// GridGraph: one center node per cell, eight compass ports around each
// center, settlement bookkeeping, and the per-node cost vectors the
// router injects before each shortest-path search. It is grounded in the
// teacher's own grid-routing data model (d2layouts/d2gridrouter/types.go,
// d2layouts/d2wueortho/routinggraph.go), generalized from the teacher's
// Horizontal/Vertical binary orientation to the full eight-way compass
// spec.md requires, and in d2layouts/d2gridrouter/router.go's
// occupied-segment tracking for the "closed grid edge" / settleEdg model.
package gridgraph

import (
	"fmt"
	"math"

	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/internal/geo"
)

// Cell addresses one lattice cell by integer coordinates in [0,W)x[0,H).
type Cell struct {
	X, Y int
}

// center is the mutable per-cell state: settlement, sink activation,
// closed grid edges, and the accumulated per-port cost vector.
type center struct {
	closed   [NumDirections]bool
	portCost [NumDirections]float64

	sinkOpen   bool
	sinkOffset float64

	hasSettled bool
	settledID  combgraph.NodeID
}

// Grid is the octilinear lattice: a bounding box divided into cellSize
// cells, with borderRad extra cells of padding on every side so routes
// have room to detour around the input bounding box.
type Grid struct {
	BBox      geo.Rect
	CellSize  float64
	BorderRad int
	Penalties Penalties

	W, H   int
	origin geo.Point // world position of cell (0,0)'s center

	centers map[Cell]*center
	byNode  map[combgraph.NodeID]Cell
}

// NewGrid builds a Grid covering bbox with borderRad extra cells of
// padding on each side, matching spec.md §3's lifecycle note: "GridGraph
// is created once per attempt (bounding box + cell size + border radius +
// penalties)."
func NewGrid(bbox geo.Rect, cellSize float64, borderRad int, pens Penalties) (*Grid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("gridgraph: cellSize must be > 0, got %v", cellSize)
	}
	if borderRad < 0 {
		return nil, fmt.Errorf("gridgraph: borderRad must be >= 0, got %d", borderRad)
	}
	if err := pens.Validate(); err != nil {
		return nil, fmt.Errorf("gridgraph: %w", err)
	}

	w := int(math.Ceil(bbox.Width()/cellSize)) + 1 + 2*borderRad
	h := int(math.Ceil(bbox.Height()/cellSize)) + 1 + 2*borderRad
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	origin := geo.NewPoint(bbox.Min.X-float64(borderRad)*cellSize, bbox.Min.Y-float64(borderRad)*cellSize)

	return &Grid{
		BBox:      bbox,
		CellSize:  cellSize,
		BorderRad: borderRad,
		Penalties: pens,
		W:         w,
		H:         h,
		origin:    origin,
		centers:   make(map[Cell]*center),
		byNode:    make(map[combgraph.NodeID]Cell),
	}, nil
}

// Clone returns a deep, independent copy of g suitable for a parallel
// octilinearizer attempt — spec.md §5: "No two workers may share a
// GridGraph instance."
func (g *Grid) Clone() *Grid {
	out := &Grid{
		BBox:      g.BBox,
		CellSize:  g.CellSize,
		BorderRad: g.BorderRad,
		Penalties: g.Penalties,
		W:         g.W,
		H:         g.H,
		origin:    g.origin,
		centers:   make(map[Cell]*center, len(g.centers)),
		byNode:    make(map[combgraph.NodeID]Cell, len(g.byNode)),
	}
	for c, v := range g.centers {
		cp := *v
		out.centers[c] = &cp
	}
	for n, c := range g.byNode {
		out.byNode[n] = c
	}
	return out
}

func (g *Grid) cell(c Cell) *center {
	cc, ok := g.centers[c]
	if !ok {
		cc = &center{}
		g.centers[c] = cc
	}
	return cc
}

// InBounds reports whether c addresses a valid lattice cell.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// CenterPos returns the world-space position of cell c's center.
func (g *Grid) CenterPos(c Cell) geo.Point {
	return geo.NewPoint(g.origin.X+float64(c.X)*g.CellSize, g.origin.Y+float64(c.Y)*g.CellSize)
}

// CellNear returns the lattice cell whose center is closest to p.
func (g *Grid) CellNear(p geo.Point) Cell {
	x := int(math.Round((p.X - g.origin.X) / g.CellSize))
	y := int(math.Round((p.Y - g.origin.Y) / g.CellSize))
	return Cell{X: x, Y: y}
}

// Neighbor returns the cell adjacent to c in direction d, or ok=false if
// that neighbor would fall outside the lattice.
func (g *Grid) Neighbor(c Cell, d Direction) (Cell, bool) {
	ddx, ddy := d.Delta()
	n := Cell{X: c.X + ddx, Y: c.Y + ddy}
	if !g.InBounds(n) {
		return Cell{}, false
	}
	return n, true
}

// EdgeOpen reports whether the grid edge leaving c toward direction d is
// usable: the neighbor must exist and neither endpoint may have that
// segment already closed by a prior settleEdg.
func (g *Grid) EdgeOpen(c Cell, d Direction) bool {
	n, ok := g.Neighbor(c, d)
	if !ok {
		return false
	}
	if cc, ok := g.centers[c]; ok && cc.closed[d] {
		return false
	}
	if nc, ok := g.centers[n]; ok && nc.closed[d.Opposite()] {
		return false
	}
	return true
}

// OpenNodeSink activates c as a source/sink for the next routing call
// with an additive base cost of offset. Every call must be paired with
// CloseNodeSink on every code path, including router failure — spec.md
// §4.3's sink-open/close invariant.
func (g *Grid) OpenNodeSink(c Cell, offset float64) {
	cc := g.cell(c)
	cc.sinkOpen = true
	cc.sinkOffset = offset
}

// CloseNodeSink restores c to inactive.
func (g *Grid) CloseNodeSink(c Cell) {
	cc := g.cell(c)
	cc.sinkOpen = false
	cc.sinkOffset = 0
}

// SinkOpen reports whether c is currently an active source/sink, and its
// offset if so.
func (g *Grid) SinkOpen(c Cell) (float64, bool) {
	cc, ok := g.centers[c]
	if !ok || !cc.sinkOpen {
		return 0, false
	}
	return cc.sinkOffset, true
}

// SettleNd anchors combinatorial node id to cell c. At most one
// combinatorial node may be settled per center (spec.md §3 invariant);
// SettleNd returns an error if c is already settled to a different node.
func (g *Grid) SettleNd(c Cell, id combgraph.NodeID) error {
	cc := g.cell(c)
	if cc.hasSettled && cc.settledID != id {
		return fmt.Errorf("gridgraph: cell %v already settled to node %s", c, cc.settledID)
	}
	cc.hasSettled = true
	cc.settledID = id
	g.byNode[id] = c
	return nil
}

// UnSettleNd reverses a prior SettleNd for id, freeing its cell.
func (g *Grid) UnSettleNd(id combgraph.NodeID) {
	c, ok := g.byNode[id]
	if !ok {
		return
	}
	if cc, ok := g.centers[c]; ok {
		cc.hasSettled = false
		cc.settledID = ""
		cc.portCost = [NumDirections]float64{}
	}
	delete(g.byNode, id)
}

// IsSettled reports whether c has an anchored combinatorial node.
func (g *Grid) IsSettled(c Cell) (combgraph.NodeID, bool) {
	cc, ok := g.centers[c]
	if !ok || !cc.hasSettled {
		return "", false
	}
	return cc.settledID, true
}

// NodeCell returns the cell id is settled to, if any.
func (g *Grid) NodeCell(id combgraph.NodeID) (Cell, bool) {
	c, ok := g.byNode[id]
	return c, ok
}

// SettleEdg closes the grid edge between adjacent cells from and to in
// both directions, so no future routing call may cross it again —
// spec.md §4.3: "closes grid edges so that future routing cannot cross
// this edge in ways that would violate octilinear planarity." Returns an
// error if the cells are not lattice-adjacent or the edge is already
// closed (a conflicting reuse, which should never happen for a correctly
// functioning router, since EdgeOpen is consulted during search).
func (g *Grid) SettleEdg(from, to Cell) error {
	d, ok := directionBetween(from, to)
	if !ok {
		return fmt.Errorf("gridgraph: cells %v and %v are not adjacent", from, to)
	}
	if !g.EdgeOpen(from, d) {
		return fmt.Errorf("gridgraph: grid edge %v->%v already closed", from, to)
	}
	g.cell(from).closed[d] = true
	g.cell(to).closed[d.Opposite()] = true
	return nil
}

// DirectionBetween returns the Direction from a to an adjacent cell b, for
// callers outside this package (e.g. octirouter) that need to recover
// which port a committed path used at a given cell.
func DirectionBetween(a, b Cell) (Direction, bool) {
	return directionBetween(a, b)
}

// directionBetween returns the Direction from a to an adjacent cell b.
func directionBetween(a, b Cell) (Direction, bool) {
	ddx, ddy := b.X-a.X, b.Y-a.Y
	for _, d := range AllDirections {
		x, y := d.Delta()
		if x == ddx && y == ddy {
			return d, true
		}
	}
	return 0, false
}

// ReopenEdg undoes a prior SettleEdg between adjacent cells from and to,
// for exact Drawing erase (spec.md §9: "implement with an explicit
// journal per Drawing ... so erase is exact, not approximate").
func (g *Grid) ReopenEdg(from, to Cell) {
	d, ok := directionBetween(from, to)
	if !ok {
		return
	}
	g.cell(from).closed[d] = false
	g.cell(to).closed[d.Opposite()] = false
}

// AddPortCost adds amount to c's accumulated cost for port d — one of the
// topological-block, spacing, or node-bend contributions spec.md §4.3
// describes as "written only when the endpoint combinatorial node is
// already settled."
func (g *Grid) AddPortCost(c Cell, d Direction, amount float64) {
	g.cell(c).portCost[d] += amount
}

// PortCost returns c's accumulated cost for port d.
func (g *Grid) PortCost(c Cell, d Direction) float64 {
	cc, ok := g.centers[c]
	if !ok {
		return 0
	}
	return cc.portCost[d]
}

// CellsWithinRadius returns every lattice cell whose center lies within
// radius of p, for the router's growing candidate search (spec.md §4.4).
func (g *Grid) CellsWithinRadius(p geo.Point, radius float64) []Cell {
	r := radius / g.CellSize
	cx := (p.X - g.origin.X) / g.CellSize
	cy := (p.Y - g.origin.Y) / g.CellSize
	minX, maxX := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	minY, maxY := int(math.Floor(cy-r)), int(math.Ceil(cy+r))

	var out []Cell
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			c := Cell{X: x, Y: y}
			if !g.InBounds(c) {
				continue
			}
			if geo.Dist(g.CenterPos(c), p) <= radius {
				out = append(out, c)
			}
		}
	}
	return out
}
