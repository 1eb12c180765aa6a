// Package transitgraph is the external, planar multigraph the
// octilinearization core consumes: stops and line segments embedded in the
// plane. The core treats it as read-only except for the short-edge collapse
// in package preprocess.
package transitgraph

import (
	"fmt"

	"github.com/lolpro11-org/loom/internal/geo"
)

// NodeID identifies a Node within a Graph.
type NodeID string

// EdgeID identifies an Edge within a Graph.
type EdgeID string

// StopID identifies a transit stop attached to a Node.
type StopID string

// LineID identifies a transit line (route) that an Edge participates in.
type LineID string

// Node is a geometric vertex, optionally carrying stop metadata. A Node
// with no Stops is a pure geometry/shaping point (e.g. a polyline bend)
// rather than a place passengers board.
type Node struct {
	ID    NodeID
	Pos   geo.Point
	Stops []StopID
}

// HasStops reports whether n is a transit stop (as opposed to a shaping
// point introduced purely by geometry).
func (n *Node) HasStops() bool { return len(n.Stops) > 0 }

// Edge is a polyline between two nodes, labeled with the set of lines that
// traverse it.
type Edge struct {
	ID       EdgeID
	From, To NodeID
	Polyline []geo.Point
	Lines    []LineID
}

// Length returns the total Euclidean length of e's polyline, or 0 if the
// polyline has fewer than two points (Edge has no access to its endpoint
// positions).
func (e *Edge) Length() float64 {
	if len(e.Polyline) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(e.Polyline); i++ {
		total += geo.Dist(e.Polyline[i-1], e.Polyline[i])
	}
	return total
}

// Graph is a planar multigraph of Nodes and Edges, with an adjacency index
// maintained incrementally by AddEdge/MergeNodes/RemoveEdge.
type Graph struct {
	Nodes map[NodeID]*Node
	Edges map[EdgeID]*Edge

	adj map[NodeID][]EdgeID
	seq int
}

// NewGraph returns an empty Graph ready for AddNode/AddEdge calls.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[NodeID]*Node),
		Edges: make(map[EdgeID]*Edge),
		adj:   make(map[NodeID][]EdgeID),
	}
}

// AddNode inserts n, overwriting any previous node with the same ID.
func (g *Graph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if _, ok := g.adj[n.ID]; !ok {
		g.adj[n.ID] = nil
	}
}

// AddEdge inserts e, indexing it under both endpoints. Returns an error if
// either endpoint is missing.
func (g *Graph) AddEdge(e *Edge) error {
	if _, ok := g.Nodes[e.From]; !ok {
		return fmt.Errorf("transitgraph: AddEdge %s: unknown from-node %s", e.ID, e.From)
	}
	if _, ok := g.Nodes[e.To]; !ok {
		return fmt.Errorf("transitgraph: AddEdge %s: unknown to-node %s", e.ID, e.To)
	}
	g.Edges[e.ID] = e
	g.adj[e.From] = append(g.adj[e.From], e.ID)
	if e.To != e.From {
		g.adj[e.To] = append(g.adj[e.To], e.ID)
	}
	return nil
}

// NextEdgeID returns a fresh, unused EdgeID, for use by callers that
// synthesize edges.
func (g *Graph) NextEdgeID() EdgeID {
	for {
		g.seq++
		id := EdgeID(fmt.Sprintf("_gen%d", g.seq))
		if _, ok := g.Edges[id]; !ok {
			return id
		}
	}
}

// IncidentEdges returns the edges incident to n, in insertion order.
func (g *Graph) IncidentEdges(n NodeID) []*Edge {
	ids := g.adj[n]
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if e, ok := g.Edges[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Degree returns the number of edge-ends incident to n (a self-loop counts
// twice).
func (g *Graph) Degree(n NodeID) int {
	deg := 0
	for _, id := range g.adj[n] {
		e := g.Edges[id]
		if e == nil {
			continue
		}
		deg++
		if e.From == e.To {
			deg++
		}
	}
	return deg
}

// OtherEnd returns the endpoint of e that is not n (or n itself, for a
// self-loop).
func (e *Edge) OtherEnd(n NodeID) NodeID {
	if e.From == n {
		return e.To
	}
	return e.From
}

// RemoveEdge deletes e from the graph and both adjacency lists.
func (g *Graph) RemoveEdge(id EdgeID) {
	e, ok := g.Edges[id]
	if !ok {
		return
	}
	delete(g.Edges, id)
	g.adj[e.From] = removeID(g.adj[e.From], id)
	if e.To != e.From {
		g.adj[e.To] = removeID(g.adj[e.To], id)
	}
}

func removeID(ids []EdgeID, target EdgeID) []EdgeID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// RemoveNode deletes n (which must have no remaining incident edges).
func (g *Graph) RemoveNode(n NodeID) {
	delete(g.Nodes, n)
	delete(g.adj, n)
}

// MergeNodes merges src into dst: every edge incident to src is
// re-pointed to dst (self-loops that would result are dropped), and src is
// removed. dst's position is left untouched; callers that want a midpoint
// position should set it before or after calling MergeNodes.
func (g *Graph) MergeNodes(dst, src NodeID) {
	if dst == src {
		return
	}
	for _, id := range append([]EdgeID(nil), g.adj[src]...) {
		e, ok := g.Edges[id]
		if !ok {
			continue
		}
		if e.From == src {
			e.From = dst
		}
		if e.To == src {
			e.To = dst
		}
		if e.From == e.To {
			// Collapsed to a self-loop on dst: drop it entirely, it
			// carries no octilinear-drawable information.
			g.RemoveEdge(id)
			continue
		}
		g.adj[dst] = append(g.adj[dst], id)
	}
	g.RemoveNode(src)
}

// BBox returns the bounding box of all node positions. The inverted
// geo.EmptyRect() is returned for an empty graph; check Rect.Valid.
func (g *Graph) BBox() geo.Rect {
	r := geo.EmptyRect()
	for _, n := range g.Nodes {
		r = r.Extend(n.Pos)
	}
	return r
}
