// Package octilinearizer is the outer scheduler spec.md §4.5 describes:
// initial embedding, randomized retries, and node-relocation refinement
// over a shared combgraph.Graph and gridgraph.Grid. It is grounded in
// Octilinearizer::draw (original_source/src/octi/Octilinearizer.cpp),
// restructured around Go's errgroup for the parallel-attempt fan-out
// spec.md §5 explicitly admits ("a correct implementation may fan
// retries across worker threads and select the best at join").
package octilinearizer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/drawing"
	"github.com/lolpro11-org/loom/gridgraph"
	"github.com/lolpro11-org/loom/internal/geo"
	"github.com/lolpro11-org/loom/internal/octlog"
	"github.com/lolpro11-org/loom/octirouter"
)

// Heuristic implements solver.Solver with the randomized-retry,
// node-relocation scheduler of spec.md §4.5.
type Heuristic struct {
	cfg Config
}

// NewHeuristic returns a Heuristic configured by cfg. cfg is not
// validated until Draw is called.
func NewHeuristic(cfg Config) *Heuristic {
	return &Heuristic{cfg: cfg}
}

// GridForGraph builds a gridgraph.Grid sized to cg's bounding box, per
// spec.md §3's lifecycle note that a Grid is "created once per attempt
// (bounding box + cell size + border radius + penalties)" — here once
// per Draw call, then Clone()d per concurrent retry.
func GridForGraph(cg *combgraph.Graph, cfg Config) (*gridgraph.Grid, error) {
	box := geo.EmptyRect()
	for _, n := range cg.Nodes {
		box = box.Extend(n.Pos)
	}
	if !box.Valid() {
		box = geo.Rect{Min: geo.NewPoint(0, 0), Max: geo.NewPoint(0, 0)}
	}
	return gridgraph.NewGrid(box, cfg.GridSize, cfg.BorderRad, cfg.Penalties)
}

// Draw implements solver.Solver. g is the attempt's base Grid (fresh,
// with nothing settled); Draw clones it for each concurrent retry and
// leaves the original g with the winning Drawing applied on return.
func (h *Heuristic) Draw(ctx context.Context, cg *combgraph.Graph, g *gridgraph.Grid) (*drawing.Drawing, error) {
	if err := h.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(cg.Nodes) == 0 {
		return drawing.New(cg), nil
	}

	router := octirouter.New()
	rng := rand.New(rand.NewSource(h.cfg.Seed))

	order := getOrdering(cg, rng)
	initial := drawing.New(cg)
	found, err := attemptEmbedding(ctx, router, cg, g, initial, order, nil, math.Inf(1))
	if err != nil {
		return nil, err
	}
	if !found {
		octlog.Debug(ctx, "no initial embedding found")
	}

	var mu sync.Mutex
	best := initial
	bestFound := found
	eraseAll(initial, g)

	if h.cfg.Retries > 0 {
		eg, egCtx := errgroup.WithContext(ctx)
		sem := make(chan struct{}, h.cfg.Workers)
		for i := 0; i < h.cfg.Retries; i++ {
			i := i
			eg.Go(func() error {
				sem <- struct{}{}
				defer func() { <-sem }()

				localGrid := g.Clone()
				localRng := rand.New(rand.NewSource(h.cfg.Seed + int64(i) + 1))
				localOrder := getOrdering(cg, localRng)
				localDrawing := drawing.New(cg)

				mu.Lock()
				cutoff := math.Inf(1)
				if bestFound {
					cutoff = best.Score()
				}
				mu.Unlock()

				ok, err := attemptEmbedding(egCtx, router, cg, localGrid, localDrawing, localOrder, nil, cutoff)
				if err != nil {
					return err
				}
				if !ok {
					octlog.Debug(ctx, "randomized retry failed", slog.Int("attempt", i))
					return nil
				}

				mu.Lock()
				if !bestFound || localDrawing.Score() < best.Score() {
					best = localDrawing
					bestFound = true
				}
				mu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	if !bestFound {
		return nil, fmt.Errorf("%w (gridSize=%v)", ErrEmbeddingInfeasible, h.cfg.GridSize)
	}

	for _, eid := range best.Edges() {
		if err := best.ApplyToGrid(eid, g); err != nil {
			return nil, err
		}
	}

	current := best
	for iter := 0; iter < h.cfg.Iters; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		startScore := current.Score()
		next, err := relocationSweep(ctx, router, cg, g, current)
		if err != nil {
			return nil, err
		}
		current = next
		imp := startScore - current.Score()
		octlog.Debug(ctx, "relocation sweep", slog.Int("iter", iter), slog.Float64("improvement", imp))
		if imp < h.cfg.ConvergenceEps {
			break
		}
	}

	return current, nil
}

// attemptEmbedding routes every edge in order against g, recording each
// into dr. It returns ok=false, nil error the first time an edge cannot
// be routed within the shrinking remaining budget (globalCutoff minus the
// score accumulated so far) — spec.md §4.4/§4.5.
func attemptEmbedding(ctx context.Context, r *octirouter.Router, cg *combgraph.Graph, g *gridgraph.Grid, dr *drawing.Drawing, order []combgraph.EdgeID, preSettled map[combgraph.NodeID]gridgraph.Cell, globalCutoff float64) (bool, error) {
	for _, eid := range order {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		e := cg.Edges[eid]
		remaining := globalCutoff - dr.Score()
		ok, err := r.RouteEdge(ctx, cg, g, dr, e, preSettled, remaining)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// eraseAll undoes every committed edge's grid settlement, leaving g as it
// was before dr was applied (spec.md §4.5: "Each attempt erases its
// drawing from the grid before proceeding").
func eraseAll(dr *drawing.Drawing, g *gridgraph.Grid) {
	for _, eid := range dr.Edges() {
		dr.EraseFromGrid(eid, g)
	}
}

// sortedNodeIDs returns cg's node ids in a fixed order, for deterministic
// sweep iteration.
func sortedNodeIDs(cg *combgraph.Graph) []combgraph.NodeID {
	ids := make([]combgraph.NodeID, 0, len(cg.Nodes))
	for id := range cg.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
