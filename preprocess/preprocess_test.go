package preprocess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lolpro11-org/loom/internal/geo"
	"github.com/lolpro11-org/loom/transitgraph"
)

func addEdge(t *testing.T, g *transitgraph.Graph, id transitgraph.EdgeID, from, to transitgraph.NodeID) {
	t.Helper()
	fn, tn := g.Nodes[from], g.Nodes[to]
	require.NoError(t, g.AddEdge(&transitgraph.Edge{
		ID:       id,
		From:     from,
		To:       to,
		Polyline: []geo.Point{fn.Pos, tn.Pos},
	}))
}

func TestCollapseShortEdges_CollinearStops(t *testing.T) {
	g := transitgraph.NewGraph()
	g.AddNode(&transitgraph.Node{ID: "a", Pos: geo.NewPoint(0, 0), Stops: []transitgraph.StopID{"sa"}})
	g.AddNode(&transitgraph.Node{ID: "b", Pos: geo.NewPoint(10, 0), Stops: []transitgraph.StopID{"sb"}})
	g.AddNode(&transitgraph.Node{ID: "c", Pos: geo.NewPoint(100, 0), Stops: []transitgraph.StopID{"sc"}})
	g.AddNode(&transitgraph.Node{ID: "d", Pos: geo.NewPoint(110, 0), Stops: []transitgraph.StopID{"sd"}})

	addEdge(t, g, "ab", "a", "b")
	addEdge(t, g, "bc", "b", "c")
	addEdge(t, g, "cd", "c", "d")

	CollapseShortEdges(context.Background(), g, 50.0/2)

	assert.LessOrEqual(t, len(g.Nodes), 2)
}

func TestCollapseShortEdges_BothStopsNeverMerge(t *testing.T) {
	g := transitgraph.NewGraph()
	g.AddNode(&transitgraph.Node{ID: "a", Pos: geo.NewPoint(0, 0), Stops: []transitgraph.StopID{"sa"}})
	g.AddNode(&transitgraph.Node{ID: "b", Pos: geo.NewPoint(1, 0), Stops: []transitgraph.StopID{"sb"}})
	g.AddNode(&transitgraph.Node{ID: "c", Pos: geo.NewPoint(50, 0), Stops: []transitgraph.StopID{"sc"}})

	addEdge(t, g, "ab", "a", "b")
	addEdge(t, g, "bc", "b", "c")

	CollapseShortEdges(context.Background(), g, 50.0/2)

	assert.Len(t, g.Nodes, 3, "both endpoints of the short edge carry stops, so it must not collapse")
}

func TestCollapseShortEdges_DegreeOneEndpointNeverMerges(t *testing.T) {
	g := transitgraph.NewGraph()
	g.AddNode(&transitgraph.Node{ID: "a", Pos: geo.NewPoint(0, 0)})
	g.AddNode(&transitgraph.Node{ID: "b", Pos: geo.NewPoint(1, 0), Stops: []transitgraph.StopID{"sb"}})

	addEdge(t, g, "ab", "a", "b")

	CollapseShortEdges(context.Background(), g, 50.0/2)

	assert.Len(t, g.Nodes, 2, "a degree-1 endpoint must never collapse")
}

func TestCollapseShortEdges_EmptyGraph(t *testing.T) {
	g := transitgraph.NewGraph()
	CollapseShortEdges(context.Background(), g, 25)
	assert.Empty(t, g.Nodes, "empty graph must remain empty")
	assert.Empty(t, g.Edges, "empty graph must remain empty")
}
