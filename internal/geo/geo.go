// Package geo provides the small set of planar-geometry helpers the
// octilinearization core needs: points, bounding boxes, and distance.
// It wraps gonum's r2 vector type rather than hand-rolling arithmetic.
package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in the plane. It is a type alias over r2.Vec so
// callers can use gonum's r2 helpers (Add, Sub, Scale, ...) directly.
type Point = r2.Vec

// NewPoint constructs a Point from coordinates.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return r2.Scale(0.5, r2.Add(a, b))
}

// Angle returns the angle in radians of the vector from a to b, in
// [-pi, pi], measured with atan2(dy, dx).
func Angle(a, b Point) float64 {
	d := r2.Sub(b, a)
	return math.Atan2(d.Y, d.X)
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Point
}

// EmptyRect returns a Rect in an inverted state suitable as the zero
// value for an incremental bounding-box computation via Extend.
func EmptyRect() Rect {
	return Rect{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Extend grows r, if needed, so that it contains p.
func (r Rect) Extend(p Point) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, p.X), Y: math.Min(r.Min.Y, p.Y)},
		Max: Point{X: math.Max(r.Max.X, p.X), Y: math.Max(r.Max.Y, p.Y)},
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Diagonal returns the Euclidean length of r's diagonal.
func (r Rect) Diagonal() float64 { return Dist(r.Min, r.Max) }

// Valid reports whether r was Extended with at least one point.
func (r Rect) Valid() bool {
	return !math.IsInf(r.Min.X, 1) && !math.IsInf(r.Max.X, -1)
}
