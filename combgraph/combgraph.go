// Package combgraph derives the combinatorial multigraph from a
// (preprocessed) transitgraph.Graph: chains of degree-2 non-stop nodes are
// collapsed into single combinatorial edges, and each combinatorial node
// caches a cyclic ordering of its incident edges by angle, as spec.md §4.2
// (CombGraph build) requires. It is the read-only input shared across all
// of the outer scheduler's parallel attempts.
package combgraph

import (
	"fmt"
	"math"
	"sort"

	"github.com/lolpro11-org/loom/internal/geo"
	"github.com/lolpro11-org/loom/transitgraph"
)

// NodeID identifies a Node, shared with the underlying transitgraph.NodeID
// it was derived from (a combinatorial node always owns exactly one
// transit node — the stop, or the chain-collapse survivor).
type NodeID = transitgraph.NodeID

// EdgeID identifies a combinatorial Edge.
type EdgeID string

// Node is a combinatorial vertex: a transit stop, or any node that
// remained degree != 2 (or carried stops) after chain collapsing.
type Node struct {
	ID  NodeID
	Pos geo.Point

	// Order is the cyclic sequence of incident EdgeIDs in angular order
	// around Pos, ties broken by EdgeID. Order[i] and Order[(i+1) %
	// len(Order)] are adjacent in the cyclic ordering.
	Order []EdgeID
}

// Edge is a combinatorial edge: the chain of underlying transit edges
// between two combinatorial nodes, collapsed through any degree-2
// non-stop nodes along the way.
type Edge struct {
	ID       EdgeID
	From, To NodeID
	// Spine holds the interior transitgraph node positions the edge
	// passes through (excluding From/To), in order from From to To, for
	// geometry-aware routing hints (e.g. angular ordering, displacement
	// cost). It is empty for a direct edge with no collapsed interior.
	Spine []geo.Point
	// Underlying lists, in order, the transit edges this combinatorial
	// edge represents.
	Underlying []transitgraph.EdgeID
}

// Length returns the Euclidean length of the straight line between e's
// endpoints, ignoring Spine — the displacement metric spec.md §4.3 uses
// for candidate-offset costs is geographic straight-line distance, not
// the (possibly longer) original polyline length.
func (e *Edge) Length(g *Graph) float64 {
	return geo.Dist(g.Nodes[e.From].Pos, g.Nodes[e.To].Pos)
}

// Graph is the combinatorial multigraph: read-only once built, and safe
// to share across concurrently-running octilinearizer attempts.
type Graph struct {
	Nodes map[NodeID]*Node
	Edges map[EdgeID]*Edge

	adj map[NodeID][]EdgeID
}

// Degree returns the number of edge-ends incident to n.
func (g *Graph) Degree(n NodeID) int { return len(g.adj[n]) }

// IncidentEdges returns the edges incident to n, in the same order as
// Nodes[n].Order.
func (g *Graph) IncidentEdges(n NodeID) []*Edge {
	order := g.Nodes[n].Order
	out := make([]*Edge, 0, len(order))
	for _, id := range order {
		out = append(out, g.Edges[id])
	}
	return out
}

// OtherEnd returns the endpoint of e that is not n.
func (e *Edge) OtherEnd(n NodeID) NodeID {
	if e.From == n {
		return e.To
	}
	return e.From
}

// Build derives a Graph from tg, collapsing every maximal chain of
// degree-2 non-stop nodes into a single combinatorial edge and computing
// each surviving node's cyclic angular edge ordering.
//
// tg is expected to already have passed through preprocess.CollapseShortEdges;
// Build does not itself collapse short edges, only degree-2 chains.
func Build(tg *transitgraph.Graph) (*Graph, error) {
	keep := make(map[transitgraph.NodeID]bool, len(tg.Nodes))
	for id, n := range tg.Nodes {
		if n.HasStops() || tg.Degree(id) != 2 {
			keep[id] = true
		}
	}
	// A graph with no stop-carrying, non-degree-2 node at all (e.g. a bare
	// cycle of shaping points) has no natural anchor; treat every node as
	// kept, so each transit edge becomes its own combinatorial edge (a
	// lone self-looping node is still rejected by walkChain's self-loop
	// check).
	if len(keep) == 0 {
		for id := range tg.Nodes {
			keep[id] = true
		}
	}

	g := &Graph{
		Nodes: make(map[NodeID]*Node, len(keep)),
		Edges: make(map[EdgeID]*Edge),
		adj:   make(map[NodeID][]EdgeID),
	}
	for id := range keep {
		n := tg.Nodes[id]
		g.Nodes[id] = &Node{ID: id, Pos: n.Pos}
	}

	visited := make(map[transitgraph.EdgeID]bool, len(tg.Edges))
	ids := sortedEdgeIDs(tg)
	seq := 0
	for _, startID := range ids {
		if visited[startID] {
			continue
		}
		start := tg.Edges[startID]
		if keep[start.From] {
			if err := walkChain(g, tg, keep, visited, start, start.From, &seq); err != nil {
				return nil, err
			}
		} else if keep[start.To] {
			if err := walkChain(g, tg, keep, visited, start, start.To, &seq); err != nil {
				return nil, err
			}
		}
		// Neither endpoint kept: an interior chain edge, covered by the
		// walk from its chain's anchor (checked below).
	}
	// An edge no walk reached belongs to a bare cycle of shaping points
	// with no anchor in its component.
	for _, id := range ids {
		if !visited[id] {
			return nil, fmt.Errorf("combgraph: edge %s has no kept endpoint to anchor a walk", id)
		}
	}

	for _, n := range g.Nodes {
		computeOrdering(g, n)
	}
	return g, nil
}

func sortedEdgeIDs(tg *transitgraph.Graph) []transitgraph.EdgeID {
	ids := make([]transitgraph.EdgeID, 0, len(tg.Edges))
	for id := range tg.Edges {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// walkChain follows the maximal degree-2 chain starting at edge `first`
// away from anchor `from`, producing one combgraph.Edge ending at the
// next kept node in each direction the chain can be followed.
func walkChain(g *Graph, tg *transitgraph.Graph, keep map[transitgraph.NodeID]bool, visited map[transitgraph.EdgeID]bool, first *transitgraph.Edge, from transitgraph.NodeID, seq *int) error {
	cur := first
	curFrom := from
	var spine []geo.Point
	var underlying []transitgraph.EdgeID

	for {
		if visited[cur.ID] {
			return nil
		}
		visited[cur.ID] = true
		underlying = append(underlying, cur.ID)
		next := cur.OtherEnd(curFrom)

		if keep[next] {
			*seq++
			id := EdgeID(fmt.Sprintf("ce%d", *seq))
			e := &Edge{ID: id, From: from, To: next, Spine: spine, Underlying: underlying}
			if e.From == e.To {
				return fmt.Errorf("combgraph: degenerate self-loop combinatorial edge at node %s", e.From)
			}
			g.Edges[id] = e
			g.adj[e.From] = append(g.adj[e.From], id)
			g.adj[e.To] = append(g.adj[e.To], id)
			return nil
		}

		spine = append(spine, tg.Nodes[next].Pos)
		incident := tg.IncidentEdges(next)
		var forward *transitgraph.Edge
		for _, e := range incident {
			if e.ID != cur.ID {
				forward = e
				break
			}
		}
		if forward == nil {
			return fmt.Errorf("combgraph: degree-2 node %s has no continuation edge", next)
		}
		cur = forward
		curFrom = next
	}
}

// computeOrdering sorts n's incident combinatorial edges by the angle from
// n.Pos to the edge's nearest directional waypoint (the first spine point,
// or the far endpoint if the edge has no spine), ties broken by EdgeID.
func computeOrdering(g *Graph, n *Node) {
	ids := append([]EdgeID(nil), g.adj[n.ID]...)
	sort.Slice(ids, func(i, j int) bool {
		ai, aj := directionAngle(g, n, ids[i]), directionAngle(g, n, ids[j])
		if ai != aj {
			return ai < aj
		}
		return ids[i] < ids[j]
	})
	n.Order = ids
}

func directionAngle(g *Graph, n *Node, id EdgeID) float64 {
	e := g.Edges[id]
	var target geo.Point
	if e.From == n.ID {
		if len(e.Spine) > 0 {
			target = e.Spine[0]
		} else {
			target = g.Nodes[e.To].Pos
		}
	} else {
		if len(e.Spine) > 0 {
			target = e.Spine[len(e.Spine)-1]
		} else {
			target = g.Nodes[e.From].Pos
		}
	}
	a := geo.Angle(n.Pos, target)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
