// Package basics provides the core numeric types, geometric primitives and
// math helpers shared by every layer of the rasterization pipeline.
package basics

import "math"

// Direction classifies how a scanline intercept affects shape coverage.
// Toggle implements the even-odd fill rule; In/Out implement non-zero
// winding.
type Direction int

const (
	Toggle Direction = iota
	In
	Out
)

func (d Direction) String() string {
	switch d {
	case Toggle:
		return "Toggle"
	case In:
		return "In"
	case Out:
		return "Out"
	default:
		return "Unknown"
	}
}

// FillRule selects how a bezier subpath's intercepts are interpreted.
type FillRule int

const (
	FillEvenOdd FillRule = iota
	FillNonZero
)

// LineCap and LineJoin are the stroke style enums the outline stroker
// consumes.
type LineCap int

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinRound
	JoinBevel
)

// Rect is an axis-aligned bounding box in source (f64) coordinates.
// ContainsY treats the Y extent as half-open [Y1,Y2); Overlaps counts
// only intersections of positive area.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// Normalize ensures X1<=X2 and Y1<=Y2.
func (r Rect) Normalize() Rect {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	return r
}

// ContainsY reports whether the row y lies within [Y1,Y2).
func (r Rect) ContainsY(y float64) bool {
	return y >= r.Y1 && y < r.Y2
}

// Overlaps reports whether two rectangles intersect.
func (r Rect) Overlaps(o Rect) bool {
	return r.X1 < o.X2 && r.X2 > o.X1 && r.Y1 < o.Y2 && r.Y2 > o.Y1
}

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X1: math.Min(r.X1, o.X1),
		Y1: math.Min(r.Y1, o.Y1),
		X2: math.Max(r.X2, o.X2),
		Y2: math.Max(r.Y2, o.Y2),
	}
}

// IntRange is a half-open pixel range [X1,X2).
type IntRange struct {
	X1, X2 int
}

func (r IntRange) Len() int {
	if r.X2 < r.X1 {
		return 0
	}
	return r.X2 - r.X1
}

func (r IntRange) Empty() bool { return r.X2 <= r.X1 }

// Intersect returns the overlap of two int ranges, which may be empty.
func (r IntRange) Intersect(o IntRange) IntRange {
	x1 := r.X1
	if o.X1 > x1 {
		x1 = o.X1
	}
	x2 := r.X2
	if o.X2 < x2 {
		x2 = o.X2
	}
	if x2 < x1 {
		x2 = x1
	}
	return IntRange{x1, x2}
}

// Clamp restricts v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b at t in [0,1].
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// URound rounds a non-negative float to the nearest integer using
// round-half-away-from-zero.
func URound(v float64) uint {
	return uint(v + 0.5)
}

// CeilInt implements the pixel-alignment boundary rule: an intercept at
// x emits a boundary at ceil(x).
func CeilInt(x float64) int {
	return int(math.Ceil(x))
}

const (
	// VertexDistEpsilon bounds degenerate (near-zero-length) segments out
	// of bezier subdivision and stroke offsetting.
	VertexDistEpsilon = 1e-14
	// DefaultStrokeAccuracy is the default bezier subdivision error bound
	// for stroke outlines, in source units.
	DefaultStrokeAccuracy = 0.002
)
