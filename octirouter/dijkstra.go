package octirouter

import (
	"container/heap"
	"math"

	"github.com/lolpro11-org/loom/gridgraph"
)

// searchState is the augmented Dijkstra state spec.md §4.4 requires: which
// cell we're at, and the direction we arrived from, since the next step's
// bend cost depends on the turn between the incoming and outgoing port.
// Grounded in the teacher's own dijkstraState/stateKey split
// (d2layouts/d2gridrouter/dijkstra.go), generalized from its binary
// Horizontal/Vertical orientation to the full eight-way compass direction
// spec.md needs.
type searchState struct {
	cell   gridgraph.Cell
	dir    gridgraph.Direction
	hasDir bool
}

type searchItem struct {
	state searchState
	g     float64
	f     float64
	index int
}

// searchPQ is a binary min-heap ordered by f = g + h, grounded directly in
// the teacher's dijkstraPQ (container/heap.Interface over *DijkstraState).
type searchPQ []*searchItem

func (pq searchPQ) Len() int { return len(pq) }
func (pq searchPQ) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].g < pq[j].g
}
func (pq searchPQ) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *searchPQ) Push(x interface{}) {
	item := x.(*searchItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *searchPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// searchResult is the outcome of a successful search: the sequence of
// cells traversed (source candidate first, target candidate last) and the
// total cost including both endpoint sink offsets.
type searchResult struct {
	cells []gridgraph.Cell
	cost  float64
}

// shortestPath runs Dijkstra (as A* with an admissible-in-intent
// heuristic, per spec.md §4.4) from every cell in starts (each with its
// own starting offset) to any cell in targets (each with its own arrival
// offset), over the open grid edges of g, respecting cutoff as an early
// termination bound on total path cost. It returns ok=false if no path
// within budget exists.
func shortestPath(g *gridgraph.Grid, starts map[gridgraph.Cell]float64, targets map[gridgraph.Cell]float64, cutoff float64) (searchResult, bool) {
	penPerGrid := g.Penalties.PenPerGrid()
	heuristic := func(c gridgraph.Cell) float64 {
		best := math.Inf(1)
		for t := range targets {
			d := chebyshev(c, t)
			if d < best {
				best = d
			}
		}
		return best * penPerGrid
	}

	best := make(map[searchState]float64)
	prev := make(map[searchState]searchState)
	hasPrev := make(map[searchState]bool)
	// arrived marks items whose g already includes their target cell's
	// arrival offset; popping one ends the search.
	arrived := make(map[*searchItem]bool)

	pq := &searchPQ{}
	heap.Init(pq)

	for c, offset := range starts {
		s := searchState{cell: c, hasDir: false}
		g0 := offset
		if bv, ok := best[s]; !ok || g0 < bv {
			best[s] = g0
			heap.Push(pq, &searchItem{state: s, g: g0, f: g0 + heuristic(c)})
		}
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*searchItem)
		if !arrived[item] && item.g > best[item.state]+1e-9 {
			continue
		}
		if item.f > cutoff+1e-9 {
			return searchResult{}, false
		}
		if arrived[item] {
			return reconstruct(item.state, item.g, prev, hasPrev), true
		}
		if offset, ok := targets[item.state.cell]; ok {
			done := &searchItem{state: item.state, g: item.g + offset, f: item.g + offset}
			arrived[done] = true
			heap.Push(pq, done)
		}

		for _, outDir := range gridgraph.AllDirections {
			if !g.EdgeOpen(item.state.cell, outDir) {
				continue
			}
			next, ok := g.Neighbor(item.state.cell, outDir)
			if !ok {
				continue
			}
			step := g.Penalties.StepCost(outDir) + g.PortCost(item.state.cell, outDir)
			if item.state.hasDir {
				step += g.Penalties.BendCost(item.state.dir, outDir)
			}
			ns := searchState{cell: next, dir: outDir, hasDir: true}
			ng := item.g + step
			if bv, ok := best[ns]; ok && ng >= bv-1e-9 {
				continue
			}
			best[ns] = ng
			prev[ns] = item.state
			hasPrev[ns] = true
			heap.Push(pq, &searchItem{state: ns, g: ng, f: ng + heuristic(next)})
		}
	}

	return searchResult{}, false
}

func reconstruct(goal searchState, totalCost float64, prev map[searchState]searchState, hasPrev map[searchState]bool) searchResult {
	var cells []gridgraph.Cell
	s := goal
	for {
		cells = append(cells, s.cell)
		if !hasPrev[s] {
			break
		}
		s = prev[s]
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return searchResult{cells: cells, cost: totalCost}
}

// chebyshev returns the Chebyshev (king-move) distance between two cells,
// the minimum number of octilinear grid steps between them ignoring
// obstacles — the admissible-in-intent distance estimate spec.md §4.4
// calls for.
func chebyshev(a, b gridgraph.Cell) float64 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return float64(dx)
	}
	return float64(dy)
}
