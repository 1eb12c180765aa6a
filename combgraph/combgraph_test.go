package combgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lolpro11-org/loom/internal/geo"
	"github.com/lolpro11-org/loom/transitgraph"
)

func newStop(tg *transitgraph.Graph, id transitgraph.NodeID, x, y float64) {
	tg.AddNode(&transitgraph.Node{ID: id, Pos: geo.NewPoint(x, y), Stops: []transitgraph.StopID{transitgraph.StopID(id)}})
}

func mustAddEdge(t *testing.T, tg *transitgraph.Graph, id transitgraph.EdgeID, from, to transitgraph.NodeID) {
	t.Helper()
	require.NoError(t, tg.AddEdge(&transitgraph.Edge{ID: id, From: from, To: to}))
}

func TestBuild_DirectEdge(t *testing.T) {
	tg := transitgraph.NewGraph()
	newStop(tg, "a", 0, 0)
	newStop(tg, "b", 100, 0)
	mustAddEdge(t, tg, "ab", "a", "b")

	cg, err := Build(tg)
	require.NoError(t, err)
	assert.Len(t, cg.Nodes, 2)
	assert.Len(t, cg.Edges, 1)
}

func TestBuild_CollapsesDegreeTwoChain(t *testing.T) {
	tg := transitgraph.NewGraph()
	newStop(tg, "a", 0, 0)
	tg.AddNode(&transitgraph.Node{ID: "shape1", Pos: geo.NewPoint(33, 0)})
	tg.AddNode(&transitgraph.Node{ID: "shape2", Pos: geo.NewPoint(66, 0)})
	newStop(tg, "b", 100, 0)
	mustAddEdge(t, tg, "e1", "a", "shape1")
	mustAddEdge(t, tg, "e2", "shape1", "shape2")
	mustAddEdge(t, tg, "e3", "shape2", "b")

	cg, err := Build(tg)
	require.NoError(t, err)
	assert.Len(t, cg.Nodes, 2, "shaping points must collapse")
	require.Len(t, cg.Edges, 1)
	for _, e := range cg.Edges {
		assert.Len(t, e.Underlying, 3)
		assert.Len(t, e.Spine, 2)
	}
}

func TestBuild_CyclicOrdering(t *testing.T) {
	tg := transitgraph.NewGraph()
	newStop(tg, "center", 0, 0)
	newStop(tg, "east", 10, 0)
	newStop(tg, "north", 0, -10)
	newStop(tg, "west", -10, 0)
	newStop(tg, "south", 0, 10)
	mustAddEdge(t, tg, "ce", "center", "east")
	mustAddEdge(t, tg, "cn", "center", "north")
	mustAddEdge(t, tg, "cw", "center", "west")
	mustAddEdge(t, tg, "cs", "center", "south")

	cg, err := Build(tg)
	require.NoError(t, err)
	order := cg.Nodes["center"].Order
	require.Len(t, order, 4)

	wantOtherEnd := []transitgraph.NodeID{"east", "south", "west", "north"}
	for i, id := range order {
		e := cg.Edges[id]
		assert.Equal(t, wantOtherEnd[i], e.OtherEnd("center"), "order[%d]", i)
	}
}

func TestBuild_DegenerateSelfLoopIsStructuralError(t *testing.T) {
	tg := transitgraph.NewGraph()
	newStop(tg, "a", 0, 0)
	tg.AddNode(&transitgraph.Node{ID: "shape", Pos: geo.NewPoint(5, 5)})
	mustAddEdge(t, tg, "e1", "a", "shape")
	mustAddEdge(t, tg, "e2", "shape", "a")

	_, err := Build(tg)
	assert.Error(t, err, "want error for a chain that loops back to its own anchor")
}
