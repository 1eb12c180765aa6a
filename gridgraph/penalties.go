package gridgraph

import (
	"fmt"

	"go.uber.org/multierr"
)

// Penalties is the configurable numeric cost policy consumed by Grid and
// octirouter, matching spec.md §4.3 verbatim: four bend costs, two
// per-step traversal costs, and two structural penalties, all
// non-negative doubles.
type Penalties struct {
	P45, P90, P135, P180 float64
	HorizontalPen        float64
	DiagonalPen          float64
	CrossPen             float64
	SplitPen             float64
}

// DefaultPenalties mirrors the calibration the teacher's own grid router
// ships with for axial/diagonal step costs (d2gridrouter prefers a modest
// bend penalty over a harsh one, so routes don't zig-zag to save a
// fractional unit of length), scaled up for the four-tier bend schedule
// this engine needs. The values keep p_135 <= p_90 <= p_45, so C0 and
// PenPerGrid are positive.
func DefaultPenalties() Penalties {
	return Penalties{
		P45:           6,
		P90:           3,
		P135:          1,
		P180:          12,
		HorizontalPen: 1,
		DiagonalPen:   1.3,
		CrossPen:      5,
		SplitPen:      2,
	}
}

// Validate reports every violated non-negativity constraint at once via
// multierr, so a misconfigured CLI invocation gets one combined error
// instead of failing on the first bad flag only. It does not fail
// p_135 <= p_90 <= p_45 (spec.md: "in practical configurations"), which
// is an advisory ordering, not a hard precondition.
func (p Penalties) Validate() error {
	var err error
	check := func(name string, v float64) {
		if v < 0 {
			err = multierr.Append(err, fmt.Errorf("gridgraph: penalty %s must be >= 0, got %v", name, v))
		}
	}
	check("p_45", p.P45)
	check("p_90", p.P90)
	check("p_135", p.P135)
	check("p_180", p.P180)
	check("horizontalPen", p.HorizontalPen)
	check("diagonalPen", p.DiagonalPen)
	check("crossPen", p.CrossPen)
	check("splitPen", p.SplitPen)
	return err
}

// BendCost returns the turn penalty for a path that arrives along one
// direction and departs along another, the same direction, or the exact
// reverse — i.e. the cost of the angle between `from` and `to` measured
// at the center they share. Straight-through (steps == 0) costs nothing,
// matching spec.md: "straight-through receives zero."
func (p Penalties) BendCost(from, to Direction) float64 {
	switch turnSteps(from, to) {
	case 0:
		return 0
	case 1:
		return p.P45
	case 2:
		return p.P90
	case 3:
		return p.P135
	default:
		return p.P180
	}
}

// StepCost returns the per-step traversal cost of moving one grid edge in
// direction d: HorizontalPen for the four axial directions, DiagonalPen
// for the four diagonals.
func (p Penalties) StepCost(d Direction) float64 {
	if d.IsDiagonal() {
		return p.DiagonalPen
	}
	return p.HorizontalPen
}

// C0 is the router's admissible-heuristic slack, preserved verbatim from
// the original implementation as a calibration constant (spec.md §9, open
// question: "this appears to be a tunable slack... preserve the value
// verbatim").
func (p Penalties) C0() float64 { return p.P45 - p.P135 }

// PenPerGrid is penPerGrid = 3 + c_0 + max(diagonalPen, horizontalPen),
// the per-grid-step admissible heuristic weight used by octirouter for
// both the A* heuristic and the candidate sink-offset formula.
func (p Penalties) PenPerGrid() float64 {
	maxStep := p.HorizontalPen
	if p.DiagonalPen > maxStep {
		maxStep = p.DiagonalPen
	}
	return 3 + p.C0() + maxStep
}
