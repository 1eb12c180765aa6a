package octirouter

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lolpro11-org/loom/combgraph"
	"github.com/lolpro11-org/loom/drawing"
	"github.com/lolpro11-org/loom/gridgraph"
	"github.com/lolpro11-org/loom/internal/geo"
)

func straightLineGraph() *combgraph.Graph {
	return &combgraph.Graph{
		Nodes: map[combgraph.NodeID]*combgraph.Node{
			"a": {ID: "a", Pos: geo.NewPoint(0, 0), Order: []combgraph.EdgeID{"ab"}},
			"b": {ID: "b", Pos: geo.NewPoint(100, 0), Order: []combgraph.EdgeID{"ab"}},
		},
		Edges: map[combgraph.EdgeID]*combgraph.Edge{
			"ab": {ID: "ab", From: "a", To: "b"},
		},
	}
}

func TestRouteEdge_StraightLine(t *testing.T) {
	cg := straightLineGraph()
	bbox := geo.Rect{Min: geo.NewPoint(0, 0), Max: geo.NewPoint(100, 100)}
	g, err := gridgraph.NewGrid(bbox, 50, 1, gridgraph.DefaultPenalties())
	require.NoError(t, err)
	dr := drawing.New(cg)
	r := New()

	ok, err := r.RouteEdge(context.Background(), cg, g, dr, cg.Edges["ab"], nil, math.Inf(1))
	require.NoError(t, err)
	require.True(t, ok, "RouteEdge: want success")

	want := 2 * gridgraph.DefaultPenalties().HorizontalPen
	assert.InDelta(t, want, dr.Score(), 1e-6)

	p, ok := dr.Path("ab")
	require.True(t, ok, "want a recorded path for edge ab")
	assert.Len(t, p.Cells, 3, "two hops")
}

func TestRouteEdge_FailsUnderTinyCutoff(t *testing.T) {
	cg := straightLineGraph()
	bbox := geo.Rect{Min: geo.NewPoint(0, 0), Max: geo.NewPoint(100, 100)}
	g, err := gridgraph.NewGrid(bbox, 50, 1, gridgraph.DefaultPenalties())
	require.NoError(t, err)
	dr := drawing.New(cg)
	r := New()

	ok, err := r.RouteEdge(context.Background(), cg, g, dr, cg.Edges["ab"], nil, 0)
	require.NoError(t, err)
	assert.False(t, ok, "want failure: cutoff of 0 cannot cover any displaced candidate's offset")
}

func TestGetCands_SettledNodeIsSingleton(t *testing.T) {
	cg := straightLineGraph()
	bbox := geo.Rect{Min: geo.NewPoint(0, 0), Max: geo.NewPoint(100, 100)}
	g, err := gridgraph.NewGrid(bbox, 50, 1, gridgraph.DefaultPenalties())
	require.NoError(t, err)
	cell := gridgraph.Cell{X: 1, Y: 1}
	require.NoError(t, g.SettleNd(cell, "a"))

	cands := getCands(cg, g, "a", nil, 50)
	require.Len(t, cands, 1)
	assert.True(t, cands[cell])
}
