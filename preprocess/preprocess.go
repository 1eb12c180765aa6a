// Package preprocess collapses sub-cell transit edges before a
// transitgraph.Graph is handed to combgraph.Build. The original engine
// implements this as a labeled-goto restart ("goto start" on every
// collapse); we restate it as the equivalent fixed-point loop: rescan
// from scratch after every collapse until none remain.
package preprocess

import (
	"context"
	"log/slog"
	"sort"

	"github.com/lolpro11-org/loom/internal/geo"
	"github.com/lolpro11-org/loom/internal/octlog"
	"github.com/lolpro11-org/loom/transitgraph"
)

// CollapseShortEdges merges every edge shorter than minLen whose endpoints
// both have degree > 1 and at least one of which carries no stops, by
// contracting it: the surviving node's position becomes the midpoint of
// the two originals, and the node carrying stops (if any) absorbs the
// other. It repeats until no such edge remains, matching
// Octilinearizer::removeEdgesShorterThan's fixed-point behavior.
//
// Per spec, callers pass minLen = gridSize/2.
func CollapseShortEdges(ctx context.Context, g *transitgraph.Graph, minLen float64) {
	collapsed := 0
	for {
		id, ok := findCollapsible(g, minLen)
		if !ok {
			break
		}
		collapseEdge(g, id)
		collapsed++
	}
	if collapsed > 0 {
		octlog.Debug(ctx, "collapsed short edges", slog.Int("count", collapsed))
	}
}

// findCollapsible returns the ID of one collapsible edge, for deterministic
// iteration order over the edges map.
func findCollapsible(g *transitgraph.Graph, minLen float64) (transitgraph.EdgeID, bool) {
	ids := make([]transitgraph.EdgeID, 0, len(g.Edges))
	for id := range g.Edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		e := g.Edges[id]
		if e == nil || e.From == e.To {
			continue
		}
		if edgeLength(g, e) >= minLen {
			continue
		}
		from, to := g.Nodes[e.From], g.Nodes[e.To]
		if from == nil || to == nil {
			continue
		}
		if g.Degree(e.From) <= 1 || g.Degree(e.To) <= 1 {
			continue
		}
		if from.HasStops() && to.HasStops() {
			continue
		}
		return id, true
	}
	return "", false
}

// edgeLength returns the polyline length of e, falling back to the
// straight-line distance between its endpoints' positions when e carries
// no polyline (e.g. an edge added without geometry).
func edgeLength(g *transitgraph.Graph, e *transitgraph.Edge) float64 {
	if len(e.Polyline) >= 2 {
		return e.Length()
	}
	from, to := g.Nodes[e.From], g.Nodes[e.To]
	if from == nil || to == nil {
		return 0
	}
	return geo.Dist(from.Pos, to.Pos)
}

// collapseEdge merges the endpoints of edge id, absorbing into whichever
// endpoint carries stops (or the lexicographically smaller NodeID, for a
// deterministic result independent of map iteration order, when neither or
// both do).
func collapseEdge(g *transitgraph.Graph, id transitgraph.EdgeID) {
	e := g.Edges[id]
	from, to := g.Nodes[e.From], g.Nodes[e.To]

	var dst, src transitgraph.NodeID
	switch {
	case to.HasStops() && !from.HasStops():
		dst, src = e.To, e.From
	case from.HasStops() && !to.HasStops():
		dst, src = e.From, e.To
	case from.ID < to.ID:
		dst, src = e.From, e.To
	default:
		dst, src = e.To, e.From
	}

	dstNode, srcNode := g.Nodes[dst], g.Nodes[src]
	dstNode.Pos = geo.Midpoint(dstNode.Pos, srcNode.Pos)
	if srcNode.HasStops() {
		dstNode.Stops = append(dstNode.Stops, srcNode.Stops...)
	}
	g.RemoveEdge(id)
	g.MergeNodes(dst, src)
}
