package gridgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lolpro11-org/loom/internal/geo"
)

func testGrid(t *testing.T) *Grid {
	t.Helper()
	bbox := geo.Rect{Min: geo.NewPoint(0, 0), Max: geo.NewPoint(100, 100)}
	g, err := NewGrid(bbox, 50, 1, DefaultPenalties())
	require.NoError(t, err)
	return g
}

func TestNewGrid_RejectsBadPenalties(t *testing.T) {
	bbox := geo.Rect{Min: geo.NewPoint(0, 0), Max: geo.NewPoint(100, 100)}
	bad := DefaultPenalties()
	bad.P45 = -1
	_, err := NewGrid(bbox, 50, 1, bad)
	assert.Error(t, err, "want error for negative penalty")
}

func TestNewGrid_RejectsNonPositiveCellSize(t *testing.T) {
	bbox := geo.Rect{Min: geo.NewPoint(0, 0), Max: geo.NewPoint(100, 100)}
	_, err := NewGrid(bbox, 0, 1, DefaultPenalties())
	assert.Error(t, err, "want error for cellSize <= 0")
}

func TestTurnSteps(t *testing.T) {
	cases := []struct {
		a, b Direction
		want int
	}{
		{East, East, 0},
		{East, SouthEast, 1},
		{East, South, 2},
		{East, SouthWest, 3},
		{East, West, 4},
		{East, NorthEast, 1},
		{North, South, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, turnSteps(c.a, c.b), "turnSteps(%v,%v)", c.a, c.b)
	}
}

func TestSettleNd_ConflictDetected(t *testing.T) {
	g := testGrid(t)
	c := Cell{X: 0, Y: 0}
	require.NoError(t, g.SettleNd(c, "a"))
	assert.Error(t, g.SettleNd(c, "b"), "want error settling a second node onto an occupied cell")
	assert.NoError(t, g.SettleNd(c, "a"), "re-settling the same node to the same cell should be a no-op")
}

func TestUnSettleNd_FreesCell(t *testing.T) {
	g := testGrid(t)
	c := Cell{X: 0, Y: 0}
	_ = g.SettleNd(c, "a")
	g.UnSettleNd("a")
	_, ok := g.IsSettled(c)
	assert.False(t, ok, "cell should not be settled after UnSettleNd")
	assert.NoError(t, g.SettleNd(c, "b"), "cell should be free for a new node after UnSettleNd")
}

func TestSettleEdg_ClosesBothDirections(t *testing.T) {
	g := testGrid(t)
	from, to := Cell{X: 1, Y: 1}, Cell{X: 2, Y: 1}
	require.True(t, g.EdgeOpen(from, East), "edge should start open")
	require.NoError(t, g.SettleEdg(from, to))
	assert.False(t, g.EdgeOpen(from, East), "edge should be closed after SettleEdg")
	assert.False(t, g.EdgeOpen(to, West), "reverse direction should also be closed")
	assert.Error(t, g.SettleEdg(from, to), "want error re-closing an already-closed edge")
}

func TestSinkOpenClose(t *testing.T) {
	g := testGrid(t)
	c := Cell{X: 0, Y: 0}
	_, ok := g.SinkOpen(c)
	require.False(t, ok, "sink should start closed")

	g.OpenNodeSink(c, 4.5)
	off, ok := g.SinkOpen(c)
	assert.True(t, ok)
	assert.Equal(t, 4.5, off)

	g.CloseNodeSink(c)
	_, ok = g.SinkOpen(c)
	assert.False(t, ok, "sink should be closed after CloseNodeSink")
}

func TestCellsWithinRadius(t *testing.T) {
	g := testGrid(t)
	cells := g.CellsWithinRadius(geo.NewPoint(0, 0), 60)
	assert.NotEmpty(t, cells, "want at least one cell within radius")
	for _, c := range cells {
		assert.LessOrEqual(t, geo.Dist(g.CenterPos(c), geo.NewPoint(0, 0)), 60.0, "cell %v center out of radius", c)
	}
}

func TestClone_Independent(t *testing.T) {
	g := testGrid(t)
	c := Cell{X: 0, Y: 0}
	_ = g.SettleNd(c, "a")
	clone := g.Clone()
	clone.UnSettleNd("a")
	_, ok := g.IsSettled(c)
	assert.True(t, ok, "mutating the clone should not affect the original")
}
