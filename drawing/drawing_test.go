package drawing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/gridgraph"
	"github.com/lolpro11-org/loom/internal/geo"
	"github.com/lolpro11-org/loom/transitgraph"
)

func testCombGraph() *combgraph.Graph {
	return &combgraph.Graph{
		Nodes: map[combgraph.NodeID]*combgraph.Node{
			"a": {ID: "a", Pos: geo.NewPoint(0, 0)},
			"b": {ID: "b", Pos: geo.NewPoint(100, 0)},
		},
		Edges: map[combgraph.EdgeID]*combgraph.Edge{
			"ab": {ID: "ab", From: "a", To: "b"},
		},
	}
}

func testGrid(t *testing.T) *gridgraph.Grid {
	t.Helper()
	bbox := geo.Rect{Min: geo.NewPoint(0, 0), Max: geo.NewPoint(100, 0)}
	g, err := gridgraph.NewGrid(bbox, 50, 1, gridgraph.DefaultPenalties())
	require.NoError(t, err)
	return g
}

func TestApplyEraseRoundTrip(t *testing.T) {
	cg := testCombGraph()
	g := testGrid(t)
	d := New(cg)

	path := []gridgraph.Cell{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}}
	d.Draw("ab", path, 2*g.Penalties.HorizontalPen, false)

	require.NoError(t, d.ApplyToGrid("ab", g))
	_, ok := g.IsSettled(path[0])
	assert.True(t, ok, "want endpoint settled after ApplyToGrid")
	assert.False(t, g.EdgeOpen(path[0], directionTo(t, path[0], path[1])), "want traversed edge closed after ApplyToGrid")

	d.EraseFromGrid("ab", g)
	_, ok = g.IsSettled(path[0])
	assert.False(t, ok, "want endpoint unsettled after EraseFromGrid")
	assert.True(t, g.EdgeOpen(path[0], directionTo(t, path[0], path[1])), "want traversed edge reopened after EraseFromGrid")
}

func directionTo(t *testing.T, from, to gridgraph.Cell) gridgraph.Direction {
	t.Helper()
	for _, d := range gridgraph.AllDirections {
		dx, dy := d.Delta()
		if from.X+dx == to.X && from.Y+dy == to.Y {
			return d
		}
	}
	t.Fatalf("cells %v and %v are not adjacent", from, to)
	return 0
}

func TestScore(t *testing.T) {
	cg := testCombGraph()
	d := New(cg)
	d.Draw("ab", []gridgraph.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}}, 7, false)
	assert.Equal(t, 7.0, d.Score())
}

func TestClone_Independent(t *testing.T) {
	cg := testCombGraph()
	d := New(cg)
	d.Draw("ab", []gridgraph.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}}, 3, false)

	clone := d.Clone()
	clone.Erase("ab")

	_, ok := d.Path("ab")
	assert.True(t, ok, "erasing from the clone should not affect the original")
	_, ok = clone.Path("ab")
	assert.False(t, ok, "clone should no longer have the erased path")
}

func TestToTransitGraph(t *testing.T) {
	cg := testCombGraph()
	g := testGrid(t)
	d := New(cg)

	src := transitgraph.NewGraph()
	src.AddNode(&transitgraph.Node{ID: "a", Pos: geo.NewPoint(0, 0), Stops: []transitgraph.StopID{"stopA"}})
	src.AddNode(&transitgraph.Node{ID: "b", Pos: geo.NewPoint(100, 0)})
	require.NoError(t, src.AddEdge(&transitgraph.Edge{ID: "te1", From: "a", To: "b", Lines: []transitgraph.LineID{"L1"}}))
	cg.Edges["ab"].Underlying = []transitgraph.EdgeID{"te1"}

	path := []gridgraph.Cell{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}}
	d.Draw("ab", path, 2*g.Penalties.HorizontalPen, false)
	require.NoError(t, d.ApplyToGrid("ab", g))

	out := d.ToTransitGraph(g, src)

	an, ok := out.Nodes["a"]
	require.True(t, ok, "projected graph missing node a")
	assert.Equal(t, g.CenterPos(path[0]), an.Pos)
	require.Len(t, an.Stops, 1)
	assert.Equal(t, transitgraph.StopID("stopA"), an.Stops[0])

	oe, ok := out.Edges["ab"]
	require.True(t, ok, "projected graph missing edge ab")
	assert.Len(t, oe.Polyline, len(path))
	require.Len(t, oe.Lines, 1)
	assert.Equal(t, transitgraph.LineID("L1"), oe.Lines[0])
}

func TestDraw_RespectsReversedForNodeCells(t *testing.T) {
	cg := testCombGraph()
	d := New(cg)
	cells := []gridgraph.Cell{{X: 2, Y: 0}, {X: 0, Y: 0}}
	d.Draw("ab", cells, 1, true)

	aCell, _ := d.NodeCell("a")
	bCell, _ := d.NodeCell("b")
	assert.Equal(t, cells[1], aCell, "reversed draw should map From to the last cell")
	assert.Equal(t, cells[0], bCell, "reversed draw should map To to the first cell")
}
